package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/validation"
)

// AuthService handles account creation, login and token resolution
type AuthService struct {
	db           *database.DB
	userRepo     *repository.UserRepository
	settingsRepo *repository.SettingsRepository
	tokens       *security.TokenManager
	logger       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(db *database.DB, userRepo *repository.UserRepository, settingsRepo *repository.SettingsRepository, tokens *security.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:           db,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		tokens:       tokens,
		logger:       logger,
	}
}

// Signup creates an account that is not yet part of any family. The first
// account in an empty database becomes an administrator and is accepted even
// in invite-only mode.
func (s *AuthService) Signup(ctx context.Context, in models.RegistrationInput) (*models.User, error) {
	if err := validation.ValidateRegistration(in); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := newMember(in, passwordHash)

	// The count and the insert share a transaction: at most one first account.
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		users := s.userRepo.WithTx(tx)
		userCount, err := users.CountUsers(ctx)
		if err != nil {
			return err
		}
		if userCount > 0 {
			inviteOnly, err := s.settingsRepo.WithTx(tx).IsInviteOnlyMode(ctx)
			if err != nil {
				return err
			}
			if inviteOnly {
				return ErrSignupClosed
			}
		}

		user.IsAdmin = userCount == 0
		if err := users.CreateUser(ctx, user); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.Bool("is_admin", user.IsAdmin))
	return user, nil
}

// Login checks credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}

// IssueToken signs a session token for user
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	token, expiresAt, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, expiresAt, nil
}

// ResolveToken verifies a session token and returns the caller identity as it
// stands now. Family membership is read from the database, not the token.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (models.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return models.Identity{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to resolve user: %w", err)
	}
	if user == nil {
		return models.Identity{}, ErrUserNotFound
	}
	return user.Identity(), nil
}

// CurrentUser loads the account behind an identity
func (s *AuthService) CurrentUser(ctx context.Context, id models.Identity) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// InviteOnly reports whether open signup is closed
func (s *AuthService) InviteOnly(ctx context.Context) (bool, error) {
	return s.settingsRepo.IsInviteOnlyMode(ctx)
}

// SetInviteOnly opens or closes open signup. Only administrators may change it.
func (s *AuthService) SetInviteOnly(ctx context.Context, id models.Identity, enabled bool) error {
	if !id.IsAdmin {
		return ErrForbidden
	}
	if err := s.settingsRepo.SetInviteOnlyMode(ctx, enabled); err != nil {
		return err
	}
	s.logger.Info("registration mode changed", zap.Bool("invite_only", enabled), zap.Int64("user_id", id.UserID))
	return nil
}

// IsAuthError reports whether err means the caller could not be authenticated
func IsAuthError(err error) bool {
	return errors.Is(err, security.ErrInvalidToken) || errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidCredentials)
}
