package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

// FamilyService handles family membership
type FamilyService struct {
	db         *database.DB
	familyRepo *repository.FamilyRepository
	userRepo   *repository.UserRepository
	logger     *zap.Logger
}

// NewFamilyService creates a new family service
func NewFamilyService(db *database.DB, familyRepo *repository.FamilyRepository, userRepo *repository.UserRepository, logger *zap.Logger) *FamilyService {
	return &FamilyService{
		db:         db,
		familyRepo: familyRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// CreateFamily creates a family and moves the caller into it
func (s *FamilyService) CreateFamily(ctx context.Context, id models.Identity, name string) (*models.Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation.ValidationError{Field: "name", Message: "family name is required"}
	}
	if id.HasFamily() {
		return nil, ErrAlreadyInFamily
	}

	var family *models.Family
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		family, err = s.familyRepo.WithTx(tx).CreateFamily(ctx, name)
		if err != nil {
			return err
		}
		return s.userRepo.WithTx(tx).SetFamily(ctx, id.UserID, family.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	s.logger.Info("family created", zap.Int64("family_id", family.ID), zap.Int64("user_id", id.UserID))
	return family, nil
}

// GetFamily returns the caller's family and its members
func (s *FamilyService) GetFamily(ctx context.Context, id models.Identity) (*models.FamilyWithMembers, error) {
	if !id.HasFamily() {
		return nil, ErrNoFamily
	}
	return s.GetFamilyByID(ctx, id, id.FamilyID)
}

// GetFamilyByID returns a family and its members when the caller may see it
func (s *FamilyService) GetFamilyByID(ctx context.Context, id models.Identity, familyID int64) (*models.FamilyWithMembers, error) {
	if !id.CanAccessFamily(familyID) {
		return nil, ErrForbidden
	}

	family, err := s.familyRepo.GetFamilyByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	members, err := s.userRepo.ListUsersByFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}
	return &models.FamilyWithMembers{Family: *family, Members: members}, nil
}

// RenameFamily changes the caller's family name
func (s *FamilyService) RenameFamily(ctx context.Context, id models.Identity, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validation.ValidationError{Field: "name", Message: "family name is required"}
	}
	if !id.HasFamily() {
		return ErrNoFamily
	}
	if id.Persona != models.PersonaParent && !id.IsAdmin {
		return ErrForbidden
	}
	if err := s.familyRepo.UpdateFamilyName(ctx, id.FamilyID, name); err != nil {
		return fmt.Errorf("failed to rename family: %w", err)
	}
	return nil
}
