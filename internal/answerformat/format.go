// Package answerformat normalizes raw answer payloads into the storage
// encoding fixed by each question type.
package answerformat

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"familyhub/internal/models"
)

// ErrUnknownQuestionType is returned for types outside the closed enumeration
var ErrUnknownQuestionType = errors.New("unknown question type")

// Result is a normalized answer. Fallback is set when the payload did not
// already have the expected shape and had to be coerced.
type Result struct {
	Format   models.AnswerFormat
	Data     interface{}
	Fallback bool
}

// Encode returns the JSON stored in answer_data
func (r Result) Encode() (json.RawMessage, error) {
	b, err := json.Marshal(r.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answer data: %w", err)
	}
	return b, nil
}

// FormatFor returns the storage encoding used by answers to t
func FormatFor(t models.QuestionType) (models.AnswerFormat, error) {
	switch t {
	case models.QuestionMultipleChoice, models.QuestionImageChoice, models.QuestionRanking:
		return models.FormatArray, nil
	case models.QuestionRatingScale, models.QuestionLikertScale, models.QuestionSlider:
		return models.FormatNumber, nil
	case models.QuestionMatrix:
		return models.FormatJSON, nil
	case models.QuestionDropdown, models.QuestionOpenEnded, models.QuestionDichotomous, models.QuestionDemographic:
		return models.FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, t)
	}
}

// Format coerces raw into the encoding selected by t. Malformed payloads are
// coerced, never rejected.
func Format(t models.QuestionType, raw interface{}) (Result, error) {
	format, err := FormatFor(t)
	if err != nil {
		return Result{}, err
	}

	var data interface{}
	var fallback bool
	switch format {
	case models.FormatArray:
		data, fallback = toArray(raw)
	case models.FormatNumber:
		data, fallback = toNumber(raw)
	case models.FormatJSON:
		data, fallback = toObject(raw)
	default:
		data, fallback = toText(raw)
	}

	return Result{Format: format, Data: data, Fallback: fallback}, nil
}

func toArray(raw interface{}) (interface{}, bool) {
	if raw == nil {
		return []interface{}{}, true
	}
	if v, ok := raw.([]interface{}); ok {
		return v, false
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, false
	}
	return []interface{}{raw}, true
}

// toNumber returns nil when raw cannot be read as a finite number
func toNumber(raw interface{}) (interface{}, bool) {
	switch v := raw.(type) {
	case nil:
		return float64(0), true
	case float64:
		return finite(v, false)
	case float32:
		return finite(float64(v), false)
	case int:
		return float64(v), false
	case int32:
		return float64(v), false
	case int64:
		return float64(v), false
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, true
		}
		return finite(f, false)
	case bool:
		if v {
			return float64(1), true
		}
		return float64(0), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return float64(0), true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, true
		}
		return finite(f, true)
	default:
		return nil, true
	}
}

func finite(f float64, fallback bool) (interface{}, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, true
	}
	return f, fallback
}

func toObject(raw interface{}) (interface{}, bool) {
	if v, ok := raw.(map[string]interface{}); ok {
		return v, false
	}
	if raw != nil {
		rv := reflect.ValueOf(raw)
		if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
			return raw, false
		}
	}
	return map[string]interface{}{"value": raw}, true
}

func toText(raw interface{}) (interface{}, bool) {
	switch v := raw.(type) {
	case string:
		return v, false
	case nil:
		return "", true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case json.Number:
		return v.String(), true
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), true
		}
		return string(b), true
	}
}
