// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// SetupTestDB opens a migrated SQLite database in a temporary directory.
// The database is closed when the test finishes.
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(zap.NewNop()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CreateTestFamily inserts a family
func CreateTestFamily(t *testing.T, db *database.DB, name string) *models.Family {
	t.Helper()

	now := time.Now()
	id, err := db.ExecReturningID(context.Background(),
		"INSERT INTO families (name, created_at, updated_at) VALUES (?, ?, ?)", name, now, now)
	if err != nil {
		t.Fatalf("Failed to create test family: %v", err)
	}
	return &models.Family{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
}

// CreateTestUser inserts an active user. A zero familyID leaves the user without a family.
func CreateTestUser(t *testing.T, db *database.DB, familyID int64, firstName, email string, persona models.Persona) *models.User {
	t.Helper()

	user := &models.User{
		FirstName:    firstName,
		LastName:     "Tester",
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         "Member",
		Persona:      persona,
		Status:       models.UserStatusActive,
	}
	if familyID != 0 {
		user.FamilyID = &familyID
	}

	now := time.Now()
	id, err := db.ExecReturningID(context.Background(), `
		INSERT INTO users (family_id, first_name, last_name, email, password_hash, phone, role, persona, bio, status, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', ?, ?, '', ?, ?, ?, ?)`,
		user.FamilyID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.Role, string(user.Persona), user.Status, false, now, now,
	)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return user
}

// CreateTestQuestion inserts a question without configuration
func CreateTestQuestion(t *testing.T, db *database.DB, userID int64, qType models.QuestionType, text string) *models.Question {
	t.Helper()

	now := time.Now()
	id, err := db.ExecReturningID(context.Background(), `
		INSERT INTO questions (user_id, question, type, file_url, folder_path, created_at, updated_at)
		VALUES (?, ?, ?, '', '', ?, ?)`,
		userID, text, string(qType), now, now,
	)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return &models.Question{ID: id, UserID: userID, Question: text, Type: qType, CreatedAt: now, UpdatedAt: now}
}

// Count returns the number of rows in table matching where
func Count(t *testing.T, db *database.DB, table, where string, args ...interface{}) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := db.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
