package service

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"familyhub/internal/answerformat"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

// SubmitAnswerInput is a raw answer as received from a client
type SubmitAnswerInput struct {
	QuestionID int64
	Answer     interface{}
	Metadata   map[string]interface{}
}

// AnswerService handles answer submission and retrieval
type AnswerService struct {
	answerRepo   *repository.AnswerRepository
	questionRepo *repository.QuestionRepository
	configRepo   *repository.QuestionConfigRepository
	userRepo     *repository.UserRepository
	logger       *zap.Logger
}

// NewAnswerService creates a new answer service
func NewAnswerService(
	answerRepo *repository.AnswerRepository,
	questionRepo *repository.QuestionRepository,
	configRepo *repository.QuestionConfigRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *AnswerService {
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		configRepo:   configRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// SubmitAnswer normalizes the payload for the question's type and stores a new
// answer. Submitting twice stores two answers.
func (s *AnswerService) SubmitAnswer(ctx context.Context, id models.Identity, in SubmitAnswerInput) (*models.Answer, error) {
	user, err := s.userRepo.GetUserByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	q, err := loadVisibleQuestion(ctx, s.questionRepo, id, in.QuestionID)
	if err != nil {
		return nil, err
	}

	data, format, err := s.normalize(ctx, q, in.Answer)
	if err != nil {
		return nil, err
	}
	metadata, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		QuestionID:   q.ID,
		UserID:       user.ID,
		AnswerFormat: format,
		AnswerData:   data,
		QuestionType: q.Type,
		Metadata:     metadata,
	}
	if err := s.answerRepo.CreateAnswer(ctx, answer); err != nil {
		return nil, err
	}

	s.logger.Info("answer submitted",
		zap.Int64("answer_id", answer.ID),
		zap.Int64("question_id", q.ID),
		zap.Int64("user_id", user.ID),
	)
	return answer, nil
}

// GetAnswer returns the caller's newest answer to a question
func (s *AnswerService) GetAnswer(ctx context.Context, id models.Identity, questionID int64) (*models.Answer, error) {
	if _, err := loadVisibleQuestion(ctx, s.questionRepo, id, questionID); err != nil {
		return nil, err
	}
	answer, err := s.answerRepo.GetLatestAnswer(ctx, questionID, id.UserID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, ErrAnswerNotFound
	}
	return answer, nil
}

// ListAnswers returns every answer to a question the caller can see
func (s *AnswerService) ListAnswers(ctx context.Context, id models.Identity, questionID int64) ([]models.Answer, error) {
	if _, err := loadVisibleQuestion(ctx, s.questionRepo, id, questionID); err != nil {
		return nil, err
	}
	return s.answerRepo.ListAnswersByQuestion(ctx, questionID)
}

// UpdateAnswer replaces the payload of an answer, formatted for the question
// type recorded on the answer. A nil metadata map keeps the stored metadata.
func (s *AnswerService) UpdateAnswer(ctx context.Context, id models.Identity, answerID int64, raw interface{}, metadata map[string]interface{}) (*models.Answer, error) {
	answer, err := s.ownedAnswer(ctx, id, answerID)
	if err != nil {
		return nil, err
	}

	q, err := s.questionRepo.GetQuestionByID(ctx, answer.QuestionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	// The answer keeps the type it was submitted under.
	q.Type = answer.QuestionType

	data, format, err := s.normalize(ctx, q, raw)
	if err != nil {
		return nil, err
	}
	answer.AnswerData = data
	answer.AnswerFormat = format

	if metadata != nil {
		encoded, err := encodeMetadata(metadata)
		if err != nil {
			return nil, err
		}
		answer.Metadata = encoded
	}

	if err := s.answerRepo.UpdateAnswer(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// DeleteAnswer removes an answer
func (s *AnswerService) DeleteAnswer(ctx context.Context, id models.Identity, answerID int64) error {
	if _, err := s.ownedAnswer(ctx, id, answerID); err != nil {
		return err
	}
	return s.answerRepo.DeleteAnswer(ctx, answerID)
}

func (s *AnswerService) ownedAnswer(ctx context.Context, id models.Identity, answerID int64) (*models.Answer, error) {
	answer, err := s.answerRepo.GetAnswerByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, ErrAnswerNotFound
	}
	if !id.CanModify(answer.UserID) {
		return nil, ErrForbidden
	}
	return answer, nil
}

// normalize turns a raw payload into the stored encoding for q
func (s *AnswerService) normalize(ctx context.Context, q *models.Question, raw interface{}) (json.RawMessage, models.AnswerFormat, error) {
	format, err := answerformat.FormatFor(q.Type)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidQuestionType, err)
	}

	if str, ok := raw.(string); ok && (format == models.FormatArray || format == models.FormatJSON) {
		var parsed interface{}
		if err := json.Unmarshal([]byte(str), &parsed); err != nil {
			s.logger.Warn("answer payload is not valid JSON, wrapping it",
				zap.Int64("question_id", q.ID),
				zap.String("question_type", string(q.Type)),
				zap.Error(err),
			)
		} else {
			raw = parsed
		}
	}

	result, err := answerformat.Format(q.Type, raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidQuestionType, err)
	}
	if result.Fallback {
		s.logger.Info("answer payload coerced",
			zap.Int64("question_id", q.ID),
			zap.String("question_type", string(q.Type)),
			zap.String("answer_format", string(result.Format)),
		)
	}

	if q.Type == models.QuestionOpenEnded {
		if err := s.checkCharacterLimit(ctx, q.ID, result.Data); err != nil {
			return nil, "", err
		}
	}

	data, err := result.Encode()
	if err != nil {
		return nil, "", err
	}
	return data, result.Format, nil
}

func (s *AnswerService) checkCharacterLimit(ctx context.Context, questionID int64, data interface{}) error {
	cfg, err := s.configRepo.FetchTypeConfig(ctx, questionID, models.QuestionOpenEnded)
	if err != nil {
		return err
	}
	openEnded, ok := cfg.(models.OpenEndedConfig)
	if !ok || openEnded.CharacterLimit == nil {
		return nil
	}
	text, _ := data.(string)
	if utf8.RuneCountInString(text) > *openEnded.CharacterLimit {
		return validation.ValidationError{
			Field:   "answer",
			Message: fmt.Sprintf("answer must be at most %d characters", *openEnded.CharacterLimit),
		}
	}
	return nil
}

func encodeMetadata(metadata map[string]interface{}) (json.RawMessage, error) {
	if metadata == nil {
		return json.RawMessage(`{}`), nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answer metadata: %w", err)
	}
	return b, nil
}
