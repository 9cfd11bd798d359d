package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

const inviteColumns = `i.id, i.family_id, i.invite_token, i.created_by, i.created_at, i.used, i.used_at, i.expires_at`

// InviteRepository handles database operations for family invites
type InviteRepository struct {
	db database.DBTX
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db database.DBTX) *InviteRepository {
	return &InviteRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *InviteRepository) WithTx(tx database.DBTX) *InviteRepository {
	return &InviteRepository{db: tx}
}

// CreateInvite inserts a new unused invite
func (r *InviteRepository) CreateInvite(ctx context.Context, familyID int64, token string, createdBy *int64, expiresAt *time.Time) (*models.FamilyInvite, error) {
	now := time.Now()
	query := `
		INSERT INTO family_invites (family_id, invite_token, created_by, created_at, used, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, familyID, token, nullable(createdBy), now, false, nullable(expiresAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return &models.FamilyInvite{
		ID:          id,
		FamilyID:    familyID,
		InviteToken: token,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetLatestUnusedInvite returns the family's newest unused invite, expired or not
func (r *InviteRepository) GetLatestUnusedInvite(ctx context.Context, familyID int64) (*models.FamilyInvite, error) {
	query := `
		SELECT ` + inviteColumns + `, f.name
		FROM family_invites i
		INNER JOIN families f ON i.family_id = f.id
		WHERE i.family_id = ? AND i.used = ?
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT 1
	`
	invite, err := scanInvite(r.db.QueryRowContext(ctx, query, familyID, false))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unused invite: %w", err)
	}
	return invite, nil
}

// GetInviteByToken retrieves an invite together with its family's name
func (r *InviteRepository) GetInviteByToken(ctx context.Context, token string) (*models.FamilyInvite, error) {
	query := `
		SELECT ` + inviteColumns + `, COALESCE(f.name, '')
		FROM family_invites i
		LEFT JOIN families f ON i.family_id = f.id
		WHERE i.invite_token = ?
	`
	invite, err := scanInvite(r.db.QueryRowContext(ctx, query, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return invite, nil
}

// ClaimInvite marks the invite used only if it is still unused. It reports
// false when another redemption got there first or the token does not exist.
func (r *InviteRepository) ClaimInvite(ctx context.Context, token string, usedAt time.Time) (bool, error) {
	query := "UPDATE family_invites SET used = ?, used_at = ? WHERE invite_token = ? AND used = ?"
	result, err := r.db.ExecContext(ctx, query, true, usedAt, token, false)
	if err != nil {
		return false, fmt.Errorf("failed to claim invite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check claimed invite: %w", err)
	}
	return affected == 1, nil
}

// ListInvites retrieves every invite, newest first
func (r *InviteRepository) ListInvites(ctx context.Context) ([]models.FamilyInvite, error) {
	query := `
		SELECT ` + inviteColumns + `, COALESCE(f.name, '')
		FROM family_invites i
		LEFT JOIN families f ON i.family_id = f.id
		ORDER BY i.created_at DESC, i.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query invites: %w", err)
	}
	defer rows.Close()

	var invites []models.FamilyInvite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, *invite)
	}
	return invites, rows.Err()
}

func scanInvite(row rowScanner) (*models.FamilyInvite, error) {
	var inv models.FamilyInvite
	var createdBy sql.NullInt64
	var usedAt, expiresAt sql.NullTime
	err := row.Scan(
		&inv.ID,
		&inv.FamilyID,
		&inv.InviteToken,
		&createdBy,
		&inv.CreatedAt,
		&inv.Used,
		&usedAt,
		&expiresAt,
		&inv.FamilyName,
	)
	if err != nil {
		return nil, err
	}
	inv.CreatedBy = int64Ptr(createdBy)
	inv.UsedAt = timePtr(usedAt)
	inv.ExpiresAt = timePtr(expiresAt)
	return &inv, nil
}
