package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrConfigMismatch is returned when a configuration variant does not fit the question type
var ErrConfigMismatch = errors.New("configuration does not match question type")

// TypeConfig is the per-type configuration of a question. Exactly one variant
// exists for each configuration shape.
type TypeConfig interface {
	Shape() ConfigShape
}

// Option is one ordered answer choice
type Option struct {
	ID          int64  `json:"id,omitempty"`
	OptionText  string `json:"option_text"`
	OptionOrder int    `json:"option_order"`
}

// OptionsConfig configures multiple-choice, dropdown, likert-scale, ranking and dichotomous questions
type OptionsConfig struct {
	Options []Option `json:"options"`
}

func (OptionsConfig) Shape() ConfigShape { return ShapeOptions }

// ImageOption is an ordered answer choice with a picture
type ImageOption struct {
	ID          int64  `json:"id,omitempty"`
	OptionText  string `json:"option_text"`
	OptionOrder int    `json:"option_order"`
	ImageURL    string `json:"image_url"`
}

// ImageChoiceConfig configures image-choice questions
type ImageChoiceConfig struct {
	Options []ImageOption `json:"options"`
}

func (ImageChoiceConfig) Shape() ConfigShape { return ShapeImageOptions }

// ScaleConfig configures rating-scale and slider questions
type ScaleConfig struct {
	MinValue     float64  `json:"min_value"`
	MaxValue     float64  `json:"max_value"`
	StepValue    float64  `json:"step_value"`
	DefaultValue *float64 `json:"default_value"`
}

func (ScaleConfig) Shape() ConfigShape { return ShapeScale }

// DefaultScaleConfig is used when a scale question has no settings row
func DefaultScaleConfig() ScaleConfig {
	return ScaleConfig{MinValue: 0, MaxValue: 10, StepValue: 1}
}

// MatrixItem is a single row or column label of a matrix question
type MatrixItem struct {
	ID        int64  `json:"id,omitempty"`
	Content   string `json:"content"`
	ItemOrder int    `json:"item_order"`
}

// MatrixConfig configures matrix questions. Rows and columns share one table,
// split by the is_row flag.
type MatrixConfig struct {
	Rows    []MatrixItem `json:"rows"`
	Columns []MatrixItem `json:"columns"`
}

func (MatrixConfig) Shape() ConfigShape { return ShapeMatrix }

// OpenEndedConfig configures open-ended questions
type OpenEndedConfig struct {
	AnswerFormat   string `json:"answer_format"`
	CharacterLimit *int   `json:"character_limit"`
}

func (OpenEndedConfig) Shape() ConfigShape { return ShapeOpenEnded }

// DemographicConfig configures demographic questions. ID is the settings row id
// that owns the options.
type DemographicConfig struct {
	ID         int64    `json:"id,omitempty"`
	FieldLabel string   `json:"field_label"`
	Options    []Option `json:"options"`
}

func (DemographicConfig) Shape() ConfigShape { return ShapeDemographic }

// DecodeTypeConfig decodes a JSON configuration into the variant selected by t.
// Empty input yields a nil configuration; unknown types yield nil as well.
func DecodeTypeConfig(t QuestionType, raw json.RawMessage) (TypeConfig, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var cfg TypeConfig
	switch t.Shape() {
	case ShapeOptions:
		var c OptionsConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("failed to decode options config: %w", err)
		}
		cfg = c
	case ShapeImageOptions:
		var c ImageChoiceConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("failed to decode image choice config: %w", err)
		}
		cfg = c
	case ShapeScale:
		c := DefaultScaleConfig()
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("failed to decode scale config: %w", err)
		}
		cfg = c
	case ShapeMatrix:
		var c MatrixConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("failed to decode matrix config: %w", err)
		}
		cfg = c
	case ShapeOpenEnded:
		var c OpenEndedConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("failed to decode open-ended config: %w", err)
		}
		cfg = c
	case ShapeDemographic:
		var c DemographicConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("failed to decode demographic config: %w", err)
		}
		cfg = c
	default:
		return nil, nil
	}
	return cfg, nil
}

// CheckConfig returns ErrConfigMismatch when cfg is not the variant used by t
func CheckConfig(t QuestionType, cfg TypeConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.Shape() != t.Shape() {
		return fmt.Errorf("%w: %s cannot hold %T", ErrConfigMismatch, t, cfg)
	}
	return nil
}
