package repository

import (
	"context"
	"database/sql"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// QuestionConfigRepository persists per-type question configuration. The
// table for each type comes from models.QuestionType.ConfigTable, so table
// names interpolated into queries are always drawn from a closed set.
type QuestionConfigRepository struct {
	db database.DBTX
}

// NewQuestionConfigRepository creates a new question configuration repository
func NewQuestionConfigRepository(db database.DBTX) *QuestionConfigRepository {
	return &QuestionConfigRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *QuestionConfigRepository) WithTx(tx database.DBTX) *QuestionConfigRepository {
	return &QuestionConfigRepository{db: tx}
}

// FetchTypeConfig loads the configuration of a question. Unknown types have no
// configuration and return nil without an error.
func (r *QuestionConfigRepository) FetchTypeConfig(ctx context.Context, questionID int64, qType models.QuestionType) (models.TypeConfig, error) {
	table := qType.ConfigTable()

	switch qType.Shape() {
	case models.ShapeOptions:
		options, err := r.fetchOptions(ctx, table, "question_id", questionID)
		if err != nil {
			return nil, err
		}
		return models.OptionsConfig{Options: options}, nil
	case models.ShapeImageOptions:
		return r.fetchImageOptions(ctx, table, questionID)
	case models.ShapeScale:
		return r.fetchScale(ctx, table, questionID)
	case models.ShapeMatrix:
		return r.fetchMatrix(ctx, table, questionID)
	case models.ShapeOpenEnded:
		return r.fetchOpenEnded(ctx, table, questionID)
	case models.ShapeDemographic:
		return r.fetchDemographic(ctx, table, questionID)
	default:
		return nil, nil
	}
}

// SaveTypeConfig stores cfg in the table selected by qType. A nil cfg stores
// nothing.
func (r *QuestionConfigRepository) SaveTypeConfig(ctx context.Context, questionID int64, qType models.QuestionType, cfg models.TypeConfig) error {
	if cfg == nil {
		return nil
	}
	if err := models.CheckConfig(qType, cfg); err != nil {
		return err
	}

	table := qType.ConfigTable()
	switch c := cfg.(type) {
	case models.OptionsConfig:
		return r.insertOptions(ctx, table, "question_id", questionID, c.Options)
	case models.ImageChoiceConfig:
		query := fmt.Sprintf("INSERT INTO %s (question_id, option_text, option_order, image_url) VALUES (?, ?, ?, ?)", table)
		for _, opt := range c.Options {
			if _, err := r.db.ExecContext(ctx, query, questionID, opt.OptionText, opt.OptionOrder, opt.ImageURL); err != nil {
				return fmt.Errorf("failed to insert image option: %w", err)
			}
		}
		return nil
	case models.ScaleConfig:
		query := fmt.Sprintf("INSERT INTO %s (question_id, min_value, max_value, step_value, default_value) VALUES (?, ?, ?, ?, ?)", table)
		if _, err := r.db.ExecContext(ctx, query, questionID, c.MinValue, c.MaxValue, c.StepValue, nullable(c.DefaultValue)); err != nil {
			return fmt.Errorf("failed to insert scale settings: %w", err)
		}
		return nil
	case models.MatrixConfig:
		query := fmt.Sprintf("INSERT INTO %s (question_id, is_row, content, item_order) VALUES (?, ?, ?, ?)", table)
		for _, row := range c.Rows {
			if _, err := r.db.ExecContext(ctx, query, questionID, true, row.Content, row.ItemOrder); err != nil {
				return fmt.Errorf("failed to insert matrix row: %w", err)
			}
		}
		for _, col := range c.Columns {
			if _, err := r.db.ExecContext(ctx, query, questionID, false, col.Content, col.ItemOrder); err != nil {
				return fmt.Errorf("failed to insert matrix column: %w", err)
			}
		}
		return nil
	case models.OpenEndedConfig:
		format := c.AnswerFormat
		if format == "" {
			format = string(models.FormatText)
		}
		query := fmt.Sprintf("INSERT INTO %s (question_id, answer_format, character_limit) VALUES (?, ?, ?)", table)
		if _, err := r.db.ExecContext(ctx, query, questionID, format, nullable(c.CharacterLimit)); err != nil {
			return fmt.Errorf("failed to insert open-ended settings: %w", err)
		}
		return nil
	case models.DemographicConfig:
		query := fmt.Sprintf("INSERT INTO %s (question_id, field_label) VALUES (?, ?)", table)
		demographicID, err := r.db.ExecReturningID(ctx, query, questionID, c.FieldLabel)
		if err != nil {
			return fmt.Errorf("failed to insert demographic settings: %w", err)
		}
		return r.insertOptions(ctx, "question_demographic_options", "demographic_id", demographicID, c.Options)
	default:
		return fmt.Errorf("%w: unsupported configuration %T", models.ErrConfigMismatch, cfg)
	}
}

func (r *QuestionConfigRepository) insertOptions(ctx context.Context, table, keyColumn string, key int64, options []models.Option) error {
	query := fmt.Sprintf("INSERT INTO %s (%s, option_text, option_order) VALUES (?, ?, ?)", table, keyColumn)
	for _, opt := range options {
		if _, err := r.db.ExecContext(ctx, query, key, opt.OptionText, opt.OptionOrder); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}

func (r *QuestionConfigRepository) fetchOptions(ctx context.Context, table, keyColumn string, key int64) ([]models.Option, error) {
	query := fmt.Sprintf("SELECT id, option_text, option_order FROM %s WHERE %s = ? ORDER BY option_order ASC, id ASC", table, keyColumn)
	rows, err := r.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.OptionText, &opt.OptionOrder); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

func (r *QuestionConfigRepository) fetchImageOptions(ctx context.Context, table string, questionID int64) (models.TypeConfig, error) {
	query := fmt.Sprintf("SELECT id, option_text, option_order, image_url FROM %s WHERE question_id = ? ORDER BY option_order ASC, id ASC", table)
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query image options: %w", err)
	}
	defer rows.Close()

	cfg := models.ImageChoiceConfig{Options: []models.ImageOption{}}
	for rows.Next() {
		var opt models.ImageOption
		if err := rows.Scan(&opt.ID, &opt.OptionText, &opt.OptionOrder, &opt.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan image option: %w", err)
		}
		cfg.Options = append(cfg.Options, opt)
	}
	return cfg, rows.Err()
}

func (r *QuestionConfigRepository) fetchScale(ctx context.Context, table string, questionID int64) (models.TypeConfig, error) {
	query := fmt.Sprintf("SELECT min_value, max_value, step_value, default_value FROM %s WHERE question_id = ?", table)
	var cfg models.ScaleConfig
	var defaultValue sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, questionID).Scan(&cfg.MinValue, &cfg.MaxValue, &cfg.StepValue, &defaultValue)
	if err == sql.ErrNoRows {
		return models.DefaultScaleConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scale settings: %w", err)
	}
	cfg.DefaultValue = float64Ptr(defaultValue)
	return cfg, nil
}

func (r *QuestionConfigRepository) fetchMatrix(ctx context.Context, table string, questionID int64) (models.TypeConfig, error) {
	query := fmt.Sprintf("SELECT id, is_row, content, item_order FROM %s WHERE question_id = ? ORDER BY item_order ASC, id ASC", table)
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matrix items: %w", err)
	}
	defer rows.Close()

	cfg := models.MatrixConfig{Rows: []models.MatrixItem{}, Columns: []models.MatrixItem{}}
	for rows.Next() {
		var item models.MatrixItem
		var isRow bool
		if err := rows.Scan(&item.ID, &isRow, &item.Content, &item.ItemOrder); err != nil {
			return nil, fmt.Errorf("failed to scan matrix item: %w", err)
		}
		if isRow {
			cfg.Rows = append(cfg.Rows, item)
		} else {
			cfg.Columns = append(cfg.Columns, item)
		}
	}
	return cfg, rows.Err()
}

func (r *QuestionConfigRepository) fetchOpenEnded(ctx context.Context, table string, questionID int64) (models.TypeConfig, error) {
	query := fmt.Sprintf("SELECT answer_format, character_limit FROM %s WHERE question_id = ?", table)
	var cfg models.OpenEndedConfig
	var limit sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, questionID).Scan(&cfg.AnswerFormat, &limit)
	if err == sql.ErrNoRows {
		return models.OpenEndedConfig{AnswerFormat: string(models.FormatText)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open-ended settings: %w", err)
	}
	cfg.CharacterLimit = intPtr(limit)
	return cfg, nil
}

// fetchDemographic reads the settings row first, then the options owned by
// that row's own id.
func (r *QuestionConfigRepository) fetchDemographic(ctx context.Context, table string, questionID int64) (models.TypeConfig, error) {
	query := fmt.Sprintf("SELECT id, field_label FROM %s WHERE question_id = ?", table)
	var cfg models.DemographicConfig
	err := r.db.QueryRowContext(ctx, query, questionID).Scan(&cfg.ID, &cfg.FieldLabel)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get demographic settings: %w", err)
	}

	options, err := r.fetchOptions(ctx, "question_demographic_options", "demographic_id", cfg.ID)
	if err != nil {
		return nil, err
	}
	cfg.Options = options
	return cfg, nil
}
