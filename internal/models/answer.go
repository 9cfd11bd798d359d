package models

import (
	"encoding/json"
	"time"
)

// AnswerFormat is the storage encoding of an answer payload
type AnswerFormat string

const (
	FormatText   AnswerFormat = "text"
	FormatNumber AnswerFormat = "number"
	FormatArray  AnswerFormat = "array"
	FormatJSON   AnswerFormat = "json"
)

// Answer is a member's response to a question. AnswerData always holds JSON
// matching AnswerFormat.
type Answer struct {
	ID           int64           `json:"id"`
	QuestionID   int64           `json:"question_id"`
	UserID       int64           `json:"user_id"`
	AnswerFormat AnswerFormat    `json:"answer_format"`
	AnswerData   json.RawMessage `json:"answer_data"`
	QuestionType QuestionType    `json:"question_type"`
	Metadata     json.RawMessage `json:"metadata"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
