package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// BackupVersion identifies the export layout
const BackupVersion = "1.0"

// BackupData represents the complete database export
type BackupData struct {
	Version      string                      `json:"version"`
	ExportedAt   time.Time                   `json:"exported_at"`
	DatabaseType string                      `json:"database_type"`
	Families     []models.Family             `json:"families"`
	Users        []models.User               `json:"users"`
	Invites      []models.FamilyInvite       `json:"invites"`
	Questions    []models.QuestionWithConfig `json:"questions"`
	Answers      []models.Answer             `json:"answers"`
}

// BackupService exports the database as JSON
type BackupService struct {
	familyRepo   *repository.FamilyRepository
	userRepo     *repository.UserRepository
	inviteRepo   *repository.InviteRepository
	questionRepo *repository.QuestionRepository
	configRepo   *repository.QuestionConfigRepository
	answerRepo   *repository.AnswerRepository
	databaseType string
	logger       *zap.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(
	familyRepo *repository.FamilyRepository,
	userRepo *repository.UserRepository,
	inviteRepo *repository.InviteRepository,
	questionRepo *repository.QuestionRepository,
	configRepo *repository.QuestionConfigRepository,
	answerRepo *repository.AnswerRepository,
	databaseType string,
	logger *zap.Logger,
) *BackupService {
	return &BackupService{
		familyRepo:   familyRepo,
		userRepo:     userRepo,
		inviteRepo:   inviteRepo,
		questionRepo: questionRepo,
		configRepo:   configRepo,
		answerRepo:   answerRepo,
		databaseType: databaseType,
		logger:       logger,
	}
}

// Collect reads every exported table. Password hashes are never included.
func (s *BackupService) Collect(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.databaseType,
	}

	var err error
	if backup.Families, err = s.familyRepo.ListFamilies(ctx); err != nil {
		return nil, fmt.Errorf("failed to export families: %w", err)
	}
	if backup.Users, err = s.userRepo.ListUsers(ctx); err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	for i := range backup.Users {
		backup.Users[i].PasswordHash = ""
	}
	if backup.Invites, err = s.inviteRepo.ListInvites(ctx); err != nil {
		return nil, fmt.Errorf("failed to export invites: %w", err)
	}

	questions, err := s.questionRepo.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export questions: %w", err)
	}
	backup.Questions = make([]models.QuestionWithConfig, 0, len(questions))
	for _, q := range questions {
		cfg, err := s.configRepo.FetchTypeConfig(ctx, q.ID, q.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to export configuration of question %d: %w", q.ID, err)
		}
		backup.Questions = append(backup.Questions, models.QuestionWithConfig{Question: q, Config: cfg})
	}

	if backup.Answers, err = s.answerRepo.ListAnswers(ctx); err != nil {
		return nil, fmt.Errorf("failed to export answers: %w", err)
	}
	return backup, nil
}

// ExportToWriter writes the export as indented JSON to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup, err := s.Collect(ctx)
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Info("database exported",
		zap.Int("families", len(backup.Families)),
		zap.Int("users", len(backup.Users)),
		zap.Int("invites", len(backup.Invites)),
		zap.Int("questions", len(backup.Questions)),
		zap.Int("answers", len(backup.Answers)),
	)
	return backup, nil
}

// Export writes the export to outputPath
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if _, err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	s.logger.Info("backup written", zap.String("path", outputPath))
	return nil
}
