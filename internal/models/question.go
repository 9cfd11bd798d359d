package models

import (
	"strings"
	"time"
)

// QuestionType selects both the configuration table and the answer encoding of a question
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionRatingScale    QuestionType = "rating-scale"
	QuestionLikertScale    QuestionType = "likert-scale"
	QuestionMatrix         QuestionType = "matrix"
	QuestionDropdown       QuestionType = "dropdown"
	QuestionOpenEnded      QuestionType = "open-ended"
	QuestionImageChoice    QuestionType = "image-choice"
	QuestionSlider         QuestionType = "slider"
	QuestionDichotomous    QuestionType = "dichotomous"
	QuestionRanking        QuestionType = "ranking"
	QuestionDemographic    QuestionType = "demographic"
)

// QuestionTypes lists every supported question type
var QuestionTypes = []QuestionType{
	QuestionMultipleChoice,
	QuestionRatingScale,
	QuestionLikertScale,
	QuestionMatrix,
	QuestionDropdown,
	QuestionOpenEnded,
	QuestionImageChoice,
	QuestionSlider,
	QuestionDichotomous,
	QuestionRanking,
	QuestionDemographic,
}

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	return t.ConfigTable() != ""
}

// ConfigTable returns the table holding the type's configuration rows, or ""
// for an unknown type.
func (t QuestionType) ConfigTable() string {
	switch t {
	case QuestionMultipleChoice:
		return "question_multiple_choice"
	case QuestionRatingScale:
		return "question_rating_scale"
	case QuestionLikertScale:
		return "question_likert_scale"
	case QuestionMatrix:
		return "question_matrix"
	case QuestionDropdown:
		return "question_dropdown"
	case QuestionOpenEnded:
		return "question_open_ended"
	case QuestionImageChoice:
		return "question_image_choice"
	case QuestionSlider:
		return "question_slider"
	case QuestionDichotomous:
		return "question_dichotomous"
	case QuestionRanking:
		return "question_ranking"
	case QuestionDemographic:
		return "question_demographic"
	default:
		return ""
	}
}

// ConfigShape classifies the layout of a type's configuration rows
type ConfigShape int

const (
	ShapeNone ConfigShape = iota
	ShapeOptions
	ShapeImageOptions
	ShapeScale
	ShapeMatrix
	ShapeOpenEnded
	ShapeDemographic
)

// Shape returns the configuration layout used by t
func (t QuestionType) Shape() ConfigShape {
	switch t {
	case QuestionMultipleChoice, QuestionDropdown, QuestionLikertScale, QuestionRanking, QuestionDichotomous:
		return ShapeOptions
	case QuestionImageChoice:
		return ShapeImageOptions
	case QuestionRatingScale, QuestionSlider:
		return ShapeScale
	case QuestionMatrix:
		return ShapeMatrix
	case QuestionOpenEnded:
		return ShapeOpenEnded
	case QuestionDemographic:
		return ShapeDemographic
	default:
		return ShapeNone
	}
}

// MediaType describes the attachment kind of a question
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// MediaTypeFromContentType maps a MIME type to a media type, or "" when unsupported
func MediaTypeFromContentType(contentType string) MediaType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaImage
	case strings.HasPrefix(contentType, "video/"):
		return MediaVideo
	case strings.HasPrefix(contentType, "audio/"):
		return MediaAudio
	default:
		return ""
	}
}

// Question is a prompt posted by a family member
type Question struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"user_id"`
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	MediaType     *MediaType   `json:"media_type"`
	FileURL       string       `json:"file_url"`
	FolderPath    string       `json:"folder_path"`
	LikeCount     int          `json:"like_count"`
	CommentCount  int          `json:"comment_count"`
	QuestionSetID *int64       `json:"question_set_id"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	AuthorName    string       `json:"author_name,omitempty"` // Populated via JOIN
	FamilyID      *int64       `json:"family_id,omitempty"`   // Author's family, populated via JOIN
}

// QuestionWithConfig combines a question with its type configuration
type QuestionWithConfig struct {
	Question
	Config TypeConfig `json:"config"`
}

// QuestionComment is a comment left on a question
type QuestionComment struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"question_id"`
	UserID     int64     `json:"user_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	AuthorName string    `json:"author_name,omitempty"` // Populated via JOIN
}
