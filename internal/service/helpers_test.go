package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/testutil"
)

type testServices struct {
	db        *database.DB
	logs      *observer.ObservedLogs
	invites   *InviteService
	auth      *AuthService
	families  *FamilyService
	questions *QuestionService
	answers   *AnswerService
	backup    *BackupService
	ses       *fakeSES
}

func newTestServices(t *testing.T, inviteTTL time.Duration) *testServices {
	t.Helper()

	db := testutil.SetupTestDB(t)
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	familyRepo := repository.NewFamilyRepository(db)
	userRepo := repository.NewUserRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	configRepo := repository.NewQuestionConfigRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)

	ses := &fakeSES{}
	email := newEmailService(ses, "noreply@familyhub.test", "FamilyHub", "https://familyhub.test", logger)
	tokens := security.NewTokenManager("test-secret", time.Hour)

	return &testServices{
		db:        db,
		logs:      logs,
		invites:   NewInviteService(db, familyRepo, userRepo, inviteRepo, email, InviteConfig{TTL: inviteTTL, AppBaseURL: "https://familyhub.test/"}, logger),
		auth:      NewAuthService(db, userRepo, repository.NewSettingsRepository(db), tokens, logger),
		families:  NewFamilyService(db, familyRepo, userRepo, logger),
		questions: NewQuestionService(db, questionRepo, configRepo, engagementRepo, logger),
		answers:   NewAnswerService(answerRepo, questionRepo, configRepo, userRepo, logger),
		backup:    NewBackupService(familyRepo, userRepo, inviteRepo, questionRepo, configRepo, answerRepo, "sqlite", logger),
		ses:       ses,
	}
}

func registration(email string) models.RegistrationInput {
	return models.RegistrationInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "correct-horse",
		Role:      "Mother",
		Persona:   models.PersonaParent,
	}
}

// fakeSES records sent messages
type fakeSES struct {
	mu   sync.Mutex
	sent []*sesv2.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &sesv2.SendEmailOutput{}, nil
}

func (f *fakeSES) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
