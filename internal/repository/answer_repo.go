package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

const answerColumns = `id, question_id, user_id, answer_format, answer_data, question_type, metadata, created_at, updated_at`

// AnswerRepository handles database operations for answers
type AnswerRepository struct {
	db database.DBTX
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db database.DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *AnswerRepository) WithTx(tx database.DBTX) *AnswerRepository {
	return &AnswerRepository{db: tx}
}

// CreateAnswer inserts an answer and fills in its ID and timestamps
func (r *AnswerRepository) CreateAnswer(ctx context.Context, a *models.Answer) error {
	now := time.Now()
	if len(a.Metadata) == 0 {
		a.Metadata = json.RawMessage(`{}`)
	}

	query := `
		INSERT INTO answers (question_id, user_id, answer_format, answer_data, question_type, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		a.QuestionID,
		a.UserID,
		string(a.AnswerFormat),
		string(a.AnswerData),
		string(a.QuestionType),
		string(a.Metadata),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}

	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// GetAnswerByID retrieves an answer by ID
func (r *AnswerRepository) GetAnswerByID(ctx context.Context, id int64) (*models.Answer, error) {
	query := "SELECT " + answerColumns + " FROM answers WHERE id = ?"
	return r.getOne(ctx, query, id)
}

// GetLatestAnswer retrieves the newest answer a user gave to a question
func (r *AnswerRepository) GetLatestAnswer(ctx context.Context, questionID, userID int64) (*models.Answer, error) {
	query := "SELECT " + answerColumns + ` FROM answers
		WHERE question_id = ? AND user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	return r.getOne(ctx, query, questionID, userID)
}

// ListAnswersByQuestion retrieves every answer to a question, oldest first
func (r *AnswerRepository) ListAnswersByQuestion(ctx context.Context, questionID int64) ([]models.Answer, error) {
	query := "SELECT " + answerColumns + " FROM answers WHERE question_id = ? ORDER BY created_at ASC, id ASC"
	return r.list(ctx, query, questionID)
}

// ListAnswers retrieves every answer ordered by ID
func (r *AnswerRepository) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	return r.list(ctx, "SELECT "+answerColumns+" FROM answers ORDER BY id")
}

// UpdateAnswer replaces the payload and metadata of an answer
func (r *AnswerRepository) UpdateAnswer(ctx context.Context, a *models.Answer) error {
	now := time.Now()
	if len(a.Metadata) == 0 {
		a.Metadata = json.RawMessage(`{}`)
	}

	query := "UPDATE answers SET answer_format = ?, answer_data = ?, metadata = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, string(a.AnswerFormat), string(a.AnswerData), string(a.Metadata), now, a.ID); err != nil {
		return fmt.Errorf("failed to update answer: %w", err)
	}
	a.UpdatedAt = now
	return nil
}

// DeleteAnswer deletes an answer by ID
func (r *AnswerRepository) DeleteAnswer(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM answers WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	return nil
}

func (r *AnswerRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Answer, error) {
	a, err := scanAnswer(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}
	return a, nil
}

func (r *AnswerRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Answer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, *a)
	}
	return answers, rows.Err()
}

func scanAnswer(row rowScanner) (*models.Answer, error) {
	var a models.Answer
	var format, data, qType, metadata string
	err := row.Scan(
		&a.ID,
		&a.QuestionID,
		&a.UserID,
		&format,
		&data,
		&qType,
		&metadata,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.AnswerFormat = models.AnswerFormat(format)
	a.AnswerData = json.RawMessage(data)
	a.QuestionType = models.QuestionType(qType)
	a.Metadata = json.RawMessage(metadata)
	return &a, nil
}
