package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"familyhub/internal/credentials"
	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/validation"
)

// InviteConfig holds the invite settings taken from the application config
type InviteConfig struct {
	TTL        time.Duration // zero means invites never expire
	AppBaseURL string
}

// InviteService handles the family invite and onboarding workflow
type InviteService struct {
	db         *database.DB
	familyRepo *repository.FamilyRepository
	userRepo   *repository.UserRepository
	inviteRepo *repository.InviteRepository
	email      *EmailService
	cfg        InviteConfig
	logger     *zap.Logger
}

// NewInviteService creates a new invite service. email may be nil.
func NewInviteService(
	db *database.DB,
	familyRepo *repository.FamilyRepository,
	userRepo *repository.UserRepository,
	inviteRepo *repository.InviteRepository,
	email *EmailService,
	cfg InviteConfig,
	logger *zap.Logger,
) *InviteService {
	return &InviteService{
		db:         db,
		familyRepo: familyRepo,
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		email:      email,
		cfg:        cfg,
		logger:     logger,
	}
}

// CreateInvite returns the family's newest live invite, or mints a new one
// when every existing invite is used or expired.
func (s *InviteService) CreateInvite(ctx context.Context, familyID int64, createdBy *int64) (*models.FamilyInvite, error) {
	family, err := s.familyRepo.GetFamilyByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInviteNotCreated, err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	var invite *models.FamilyInvite
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		invites := s.inviteRepo.WithTx(tx)

		existing, err := invites.GetLatestUnusedInvite(ctx, familyID)
		if err != nil {
			return err
		}
		if existing != nil && !existing.IsExpired() {
			invite = existing
			return nil
		}

		token, err := credentials.GenerateInviteToken()
		if err != nil {
			return err
		}

		var expiresAt *time.Time
		if s.cfg.TTL > 0 {
			t := time.Now().Add(s.cfg.TTL)
			expiresAt = &t
		}

		invite, err = invites.CreateInvite(ctx, familyID, token, createdBy, expiresAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInviteNotCreated, err)
	}

	invite.FamilyName = family.Name
	s.logger.Info("invite ready",
		zap.Int64("family_id", familyID),
		zap.Int64("invite_id", invite.ID),
	)
	return invite, nil
}

// ValidateInvite returns the invite with its family name when token can still be redeemed
func (s *InviteService) ValidateInvite(ctx context.Context, token string) (*models.FamilyInvite, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInviteNotFound
	}

	invite, err := s.inviteRepo.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to validate invite: %w", err)
	}
	if err := checkInvite(invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// RegisterWithInvite creates a family member account from an invite. Claiming
// the invite and inserting the user happen in one transaction, so concurrent
// redemptions of one token produce exactly one account and a failed insert
// leaves the invite unused.
func (s *InviteService) RegisterWithInvite(ctx context.Context, in models.RegistrationInput, token string) (*models.User, error) {
	if err := validation.ValidateRegistration(in); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInviteNotFound
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *models.User
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		invites := s.inviteRepo.WithTx(tx)

		invite, err := invites.GetInviteByToken(ctx, token)
		if err != nil {
			return err
		}
		if err := checkInvite(invite); err != nil {
			return err
		}

		claimed, err := invites.ClaimInvite(ctx, token, time.Now())
		if err != nil {
			return err
		}
		if !claimed {
			return ErrInviteUsed
		}

		familyID := invite.FamilyID
		user = newMember(in, passwordHash)
		user.FamilyID = &familyID

		if err := s.userRepo.WithTx(tx).CreateUser(ctx, user); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Info("invite registration rejected", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user registered with invite",
		zap.Int64("user_id", user.ID),
		zap.Int64("family_id", *user.FamilyID),
	)
	return user, nil
}

// InviteURL returns the registration link carrying token
func (s *InviteService) InviteURL(token string) string {
	return strings.TrimRight(s.cfg.AppBaseURL, "/") + "/register?token=" + url.QueryEscape(token)
}

// SendInviteEmail mails the invite link to toEmail
func (s *InviteService) SendInviteEmail(ctx context.Context, invite *models.FamilyInvite, toEmail string) error {
	if err := validation.ValidateEmail(toEmail); err != nil {
		return err
	}
	if s.email == nil || !s.email.IsEnabled() {
		return ErrEmailDisabled
	}
	return s.email.SendInviteEmail(ctx, strings.TrimSpace(toEmail), invite.FamilyName, s.InviteURL(invite.InviteToken))
}

// checkInvite classifies an invite that cannot be redeemed
func checkInvite(invite *models.FamilyInvite) error {
	switch {
	case invite == nil:
		return ErrInviteNotFound
	case invite.Used:
		return ErrInviteUsed
	case invite.IsExpired():
		return ErrInviteExpired
	default:
		return nil
	}
}

// newMember builds an active account from registration fields
func newMember(in models.RegistrationInput, passwordHash string) *models.User {
	return &models.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: passwordHash,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         strings.TrimSpace(in.Role),
		Persona:      in.Persona,
		Bio:          strings.TrimSpace(in.Bio),
		Status:       models.UserStatusActive,
	}
}
