package repository

import (
	"context"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// EngagementRepository handles likes and comments on questions
type EngagementRepository struct {
	db database.DBTX
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db database.DBTX) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *EngagementRepository) WithTx(tx database.DBTX) *EngagementRepository {
	return &EngagementRepository{db: tx}
}

// AddLike records that a user likes a question. It reports false when the
// like already existed.
func (r *EngagementRepository) AddLike(ctx context.Context, questionID, userID int64) (bool, error) {
	query := "INSERT INTO question_likes (question_id, user_id, created_at) VALUES (?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, questionID, userID, time.Now()); err != nil {
		if database.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return true, nil
}

// RemoveLike deletes a user's like. It reports false when there was nothing to remove.
func (r *EngagementRepository) RemoveLike(ctx context.Context, questionID, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM question_likes WHERE question_id = ? AND user_id = ?", questionID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check removed like: %w", err)
	}
	return affected > 0, nil
}

// HasLiked reports whether a user likes a question
func (r *EngagementRepository) HasLiked(ctx context.Context, questionID, userID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM question_likes WHERE question_id = ? AND user_id = ?"
	if err := r.db.QueryRowContext(ctx, query, questionID, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}

// CreateComment inserts a comment and fills in its ID and timestamp
func (r *EngagementRepository) CreateComment(ctx context.Context, c *models.QuestionComment) error {
	now := time.Now()
	query := "INSERT INTO question_comments (question_id, user_id, body, created_at) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, c.QuestionID, c.UserID, c.Body, now)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	return nil
}

// ListComments retrieves the comments on a question, oldest first
func (r *EngagementRepository) ListComments(ctx context.Context, questionID int64) ([]models.QuestionComment, error) {
	query := `
		SELECT c.id, c.question_id, c.user_id, c.body, c.created_at, u.first_name, u.last_name
		FROM question_comments c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.question_id = ?
		ORDER BY c.created_at ASC, c.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.QuestionComment{}
	for rows.Next() {
		var c models.QuestionComment
		var firstName, lastName string
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.UserID, &c.Body, &c.CreatedAt, &firstName, &lastName); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.AuthorName = firstName + " " + lastName
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
