package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"familyhub/internal/database"
)

const settingInviteOnly = "invite_only_mode"

// SettingsRepository stores instance-wide key/value settings
type SettingsRepository struct {
	db database.DBTX
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *SettingsRepository) WithTx(tx database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: tx}
}

// GetSetting retrieves a setting value by key. A missing key yields ok=false.
func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (value string, ok bool, err error) {
	query := "SELECT value FROM settings WHERE setting_key = ?"
	err = r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, r.db.GetDialect().UpsertSetting(), key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// IsInviteOnlyMode reports whether open signup is closed. Registration is
// open until the setting is written.
func (r *SettingsRepository) IsInviteOnlyMode(ctx context.Context) (bool, error) {
	value, ok, err := r.GetSetting(ctx, settingInviteOnly)
	if err != nil || !ok {
		return false, err
	}
	return value == "true", nil
}

// SetInviteOnlyMode enables or disables invite-only mode
func (r *SettingsRepository) SetInviteOnlyMode(ctx context.Context, enabled bool) error {
	return r.SetSetting(ctx, settingInviteOnly, strconv.FormatBool(enabled))
}
