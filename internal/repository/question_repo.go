package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

const questionSelect = `
	SELECT q.id, q.user_id, q.question, q.type, q.media_type, q.file_url, q.folder_path,
		q.like_count, q.comment_count, q.question_set_id, q.created_at, q.updated_at,
		u.first_name, u.last_name, u.family_id
	FROM questions q
	INNER JOIN users u ON q.user_id = u.id
`

// QuestionRepository handles database operations for questions
type QuestionRepository struct {
	db database.DBTX
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db database.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *QuestionRepository) WithTx(tx database.DBTX) *QuestionRepository {
	return &QuestionRepository{db: tx}
}

// CreateQuestion inserts a question and fills in its ID and timestamps
func (r *QuestionRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	now := time.Now()
	query := `
		INSERT INTO questions (user_id, question, type, media_type, file_url, folder_path,
			like_count, comment_count, question_set_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		q.UserID,
		q.Question,
		string(q.Type),
		mediaTypeArg(q.MediaType),
		q.FileURL,
		q.FolderPath,
		nullable(q.QuestionSetID),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	q.ID = id
	q.LikeCount = 0
	q.CommentCount = 0
	q.CreatedAt = now
	q.UpdatedAt = now
	return nil
}

// GetQuestionByID retrieves a question with its author's name and family
func (r *QuestionRepository) GetQuestionByID(ctx context.Context, id int64) (*models.Question, error) {
	q, err := scanQuestion(r.db.QueryRowContext(ctx, questionSelect+" WHERE q.id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// ListQuestionsByFamily retrieves questions authored by members of a family, newest first
func (r *QuestionRepository) ListQuestionsByFamily(ctx context.Context, familyID int64) ([]models.Question, error) {
	return r.list(ctx, questionSelect+" WHERE u.family_id = ? ORDER BY q.created_at DESC, q.id DESC", familyID)
}

// ListQuestionsByUser retrieves questions authored by a user, newest first
func (r *QuestionRepository) ListQuestionsByUser(ctx context.Context, userID int64) ([]models.Question, error) {
	return r.list(ctx, questionSelect+" WHERE q.user_id = ? ORDER BY q.created_at DESC, q.id DESC", userID)
}

// ListQuestions retrieves every question ordered by ID
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return r.list(ctx, questionSelect+" ORDER BY q.id")
}

// UpdateQuestion changes the text and media fields of a question. The type is never touched.
func (r *QuestionRepository) UpdateQuestion(ctx context.Context, q *models.Question) error {
	now := time.Now()
	query := `
		UPDATE questions
		SET question = ?, media_type = ?, file_url = ?, folder_path = ?, updated_at = ?
		WHERE id = ?
	`
	if _, err := r.db.ExecContext(ctx, query, q.Question, mediaTypeArg(q.MediaType), q.FileURL, q.FolderPath, now, q.ID); err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	q.UpdatedAt = now
	return nil
}

// DeleteQuestion deletes a question; configuration, answers, likes and comments cascade
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// AdjustLikeCount adds delta to the question's like counter
func (r *QuestionRepository) AdjustLikeCount(ctx context.Context, id int64, delta int) error {
	query := "UPDATE questions SET like_count = like_count + ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, delta, id); err != nil {
		return fmt.Errorf("failed to update like count: %w", err)
	}
	return nil
}

// AdjustCommentCount adds delta to the question's comment counter
func (r *QuestionRepository) AdjustCommentCount(ctx context.Context, id int64, delta int) error {
	query := "UPDATE questions SET comment_count = comment_count + ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, delta, id); err != nil {
		return fmt.Errorf("failed to update comment count: %w", err)
	}
	return nil
}

func (r *QuestionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

func mediaTypeArg(m *models.MediaType) interface{} {
	if m == nil || *m == "" {
		return nil
	}
	return string(*m)
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var qType, firstName, lastName string
	var mediaType sql.NullString
	var questionSetID, familyID sql.NullInt64
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.Question,
		&qType,
		&mediaType,
		&q.FileURL,
		&q.FolderPath,
		&q.LikeCount,
		&q.CommentCount,
		&questionSetID,
		&q.CreatedAt,
		&q.UpdatedAt,
		&firstName,
		&lastName,
		&familyID,
	)
	if err != nil {
		return nil, err
	}

	q.Type = models.QuestionType(qType)
	if mediaType.Valid {
		m := models.MediaType(mediaType.String)
		q.MediaType = &m
	}
	q.QuestionSetID = int64Ptr(questionSetID)
	q.AuthorName = firstName + " " + lastName
	q.FamilyID = int64Ptr(familyID)
	return &q, nil
}
