package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

// CreateQuestionInput holds the fields of a new question
type CreateQuestionInput struct {
	Question      string
	Type          models.QuestionType
	Config        models.TypeConfig
	MediaType     *models.MediaType
	FileURL       string
	FolderPath    string
	QuestionSetID *int64
}

// UpdateQuestionInput holds the editable fields of a question. Nil fields are
// left unchanged. The type and its configuration are fixed at creation so
// stored answers keep matching the choices they were given for.
type UpdateQuestionInput struct {
	Question   *string
	MediaType  *models.MediaType
	FileURL    *string
	FolderPath *string
	ClearMedia bool
}

// QuestionService handles questions, their configuration and engagement
type QuestionService struct {
	db             *database.DB
	questionRepo   *repository.QuestionRepository
	configRepo     *repository.QuestionConfigRepository
	engagementRepo *repository.EngagementRepository
	logger         *zap.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(
	db *database.DB,
	questionRepo *repository.QuestionRepository,
	configRepo *repository.QuestionConfigRepository,
	engagementRepo *repository.EngagementRepository,
	logger *zap.Logger,
) *QuestionService {
	return &QuestionService{
		db:             db,
		questionRepo:   questionRepo,
		configRepo:     configRepo,
		engagementRepo: engagementRepo,
		logger:         logger,
	}
}

// CreateQuestion stores a question and its type configuration together
func (s *QuestionService) CreateQuestion(ctx context.Context, id models.Identity, in CreateQuestionInput) (*models.QuestionWithConfig, error) {
	if err := validation.ValidateQuestionText(in.Question); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQuestionType, in.Type)
	}
	if err := models.CheckConfig(in.Type, in.Config); err != nil {
		return nil, err
	}
	if err := validateTypeConfig(in.Config); err != nil {
		return nil, err
	}
	if err := validateMediaType(in.MediaType); err != nil {
		return nil, err
	}

	q := &models.Question{
		UserID:        id.UserID,
		Question:      strings.TrimSpace(in.Question),
		Type:          in.Type,
		MediaType:     in.MediaType,
		FileURL:       in.FileURL,
		FolderPath:    in.FolderPath,
		QuestionSetID: in.QuestionSetID,
	}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := s.questionRepo.WithTx(tx).CreateQuestion(ctx, q); err != nil {
			return err
		}
		return s.configRepo.WithTx(tx).SaveTypeConfig(ctx, q.ID, q.Type, in.Config)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("question created",
		zap.Int64("question_id", q.ID),
		zap.Int64("user_id", id.UserID),
		zap.String("type", string(q.Type)),
	)
	return s.GetQuestion(ctx, id, q.ID)
}

// GetQuestion returns a question with its configuration
func (s *QuestionService) GetQuestion(ctx context.Context, id models.Identity, questionID int64) (*models.QuestionWithConfig, error) {
	q, err := s.visibleQuestion(ctx, id, questionID)
	if err != nil {
		return nil, err
	}
	return s.withConfig(ctx, *q)
}

// ListFamilyQuestions returns the questions posted by the caller's family,
// newest first. Callers without a family see their own questions.
func (s *QuestionService) ListFamilyQuestions(ctx context.Context, id models.Identity) ([]models.QuestionWithConfig, error) {
	var questions []models.Question
	var err error
	if id.HasFamily() {
		questions, err = s.questionRepo.ListQuestionsByFamily(ctx, id.FamilyID)
	} else {
		questions, err = s.questionRepo.ListQuestionsByUser(ctx, id.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	result := make([]models.QuestionWithConfig, 0, len(questions))
	for _, q := range questions {
		qc, err := s.withConfig(ctx, q)
		if err != nil {
			return nil, err
		}
		result = append(result, *qc)
	}
	return result, nil
}

// UpdateQuestion changes the text or media of a question
func (s *QuestionService) UpdateQuestion(ctx context.Context, id models.Identity, questionID int64, in UpdateQuestionInput) (*models.QuestionWithConfig, error) {
	q, err := s.ownedQuestion(ctx, id, questionID)
	if err != nil {
		return nil, err
	}

	if in.Question != nil {
		if err := validation.ValidateQuestionText(*in.Question); err != nil {
			return nil, err
		}
		q.Question = strings.TrimSpace(*in.Question)
	}
	if in.ClearMedia {
		q.MediaType = nil
		q.FileURL = ""
		q.FolderPath = ""
	}
	if in.MediaType != nil {
		if err := validateMediaType(in.MediaType); err != nil {
			return nil, err
		}
		q.MediaType = in.MediaType
	}
	if in.FileURL != nil {
		q.FileURL = *in.FileURL
	}
	if in.FolderPath != nil {
		q.FolderPath = *in.FolderPath
	}

	if err := s.questionRepo.UpdateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return s.GetQuestion(ctx, id, questionID)
}

// DeleteQuestion removes a question with everything attached to it
func (s *QuestionService) DeleteQuestion(ctx context.Context, id models.Identity, questionID int64) error {
	if _, err := s.ownedQuestion(ctx, id, questionID); err != nil {
		return err
	}
	if err := s.questionRepo.DeleteQuestion(ctx, questionID); err != nil {
		return err
	}
	s.logger.Info("question deleted", zap.Int64("question_id", questionID), zap.Int64("user_id", id.UserID))
	return nil
}

// LikeQuestion records the caller's like and returns the new like count
func (s *QuestionService) LikeQuestion(ctx context.Context, id models.Identity, questionID int64) (int, error) {
	if _, err := s.visibleQuestion(ctx, id, questionID); err != nil {
		return 0, err
	}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		engagement := s.engagementRepo.WithTx(tx)
		liked, err := engagement.HasLiked(ctx, questionID, id.UserID)
		if err != nil || liked {
			return err
		}
		added, err := engagement.AddLike(ctx, questionID, id.UserID)
		if err != nil || !added {
			return err
		}
		return s.questionRepo.WithTx(tx).AdjustLikeCount(ctx, questionID, 1)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to like question: %w", err)
	}
	return s.likeCount(ctx, questionID)
}

// UnlikeQuestion removes the caller's like and returns the new like count
func (s *QuestionService) UnlikeQuestion(ctx context.Context, id models.Identity, questionID int64) (int, error) {
	if _, err := s.visibleQuestion(ctx, id, questionID); err != nil {
		return 0, err
	}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		removed, err := s.engagementRepo.WithTx(tx).RemoveLike(ctx, questionID, id.UserID)
		if err != nil || !removed {
			return err
		}
		return s.questionRepo.WithTx(tx).AdjustLikeCount(ctx, questionID, -1)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to unlike question: %w", err)
	}
	return s.likeCount(ctx, questionID)
}

// AddComment posts a comment on a question
func (s *QuestionService) AddComment(ctx context.Context, id models.Identity, questionID int64, body string) (*models.QuestionComment, error) {
	if err := validation.ValidateComment(body); err != nil {
		return nil, err
	}
	if _, err := s.visibleQuestion(ctx, id, questionID); err != nil {
		return nil, err
	}

	comment := &models.QuestionComment{
		QuestionID: questionID,
		UserID:     id.UserID,
		Body:       strings.TrimSpace(body),
	}
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := s.engagementRepo.WithTx(tx).CreateComment(ctx, comment); err != nil {
			return err
		}
		return s.questionRepo.WithTx(tx).AdjustCommentCount(ctx, questionID, 1)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}

// ListComments returns the comments on a question, oldest first
func (s *QuestionService) ListComments(ctx context.Context, id models.Identity, questionID int64) ([]models.QuestionComment, error) {
	if _, err := s.visibleQuestion(ctx, id, questionID); err != nil {
		return nil, err
	}
	return s.engagementRepo.ListComments(ctx, questionID)
}

// visibleQuestion loads a question the caller is allowed to read
func (s *QuestionService) visibleQuestion(ctx context.Context, id models.Identity, questionID int64) (*models.Question, error) {
	return loadVisibleQuestion(ctx, s.questionRepo, id, questionID)
}

// ownedQuestion loads a question the caller is allowed to change
func (s *QuestionService) ownedQuestion(ctx context.Context, id models.Identity, questionID int64) (*models.Question, error) {
	q, err := s.questionRepo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	if !id.CanModify(q.UserID) {
		return nil, ErrForbidden
	}
	return q, nil
}

func (s *QuestionService) withConfig(ctx context.Context, q models.Question) (*models.QuestionWithConfig, error) {
	cfg, err := s.configRepo.FetchTypeConfig(ctx, q.ID, q.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to load question configuration: %w", err)
	}
	return &models.QuestionWithConfig{Question: q, Config: cfg}, nil
}

func (s *QuestionService) likeCount(ctx context.Context, questionID int64) (int, error) {
	q, err := s.questionRepo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return 0, err
	}
	if q == nil {
		return 0, ErrQuestionNotFound
	}
	return q.LikeCount, nil
}

// loadVisibleQuestion applies family scoping: authors, members of the
// author's family and admins may read a question.
func loadVisibleQuestion(ctx context.Context, repo *repository.QuestionRepository, id models.Identity, questionID int64) (*models.Question, error) {
	q, err := repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	if q.UserID == id.UserID || id.IsAdmin {
		return q, nil
	}
	if q.FamilyID == nil || !id.CanAccessFamily(*q.FamilyID) {
		return nil, ErrForbidden
	}
	return q, nil
}

func validateMediaType(m *models.MediaType) error {
	if m == nil {
		return nil
	}
	switch *m {
	case models.MediaImage, models.MediaVideo, models.MediaAudio:
		return nil
	default:
		return validation.ValidationError{Field: "media_type", Message: "media type must be image, video or audio"}
	}
}

// validateTypeConfig checks the contents of a configuration variant
func validateTypeConfig(cfg models.TypeConfig) error {
	switch c := cfg.(type) {
	case models.OptionsConfig:
		return validateOptions(c.Options)
	case models.DemographicConfig:
		return validateOptions(c.Options)
	case models.ImageChoiceConfig:
		for _, o := range c.Options {
			if strings.TrimSpace(o.OptionText) == "" && strings.TrimSpace(o.ImageURL) == "" {
				return validation.ValidationError{Field: "options", Message: "image options need text or an image"}
			}
		}
	case models.ScaleConfig:
		if c.MaxValue <= c.MinValue {
			return validation.ValidationError{Field: "max_value", Message: "max value must be greater than min value"}
		}
		if c.StepValue <= 0 {
			return validation.ValidationError{Field: "step_value", Message: "step value must be positive"}
		}
		if c.DefaultValue != nil && (*c.DefaultValue < c.MinValue || *c.DefaultValue > c.MaxValue) {
			return validation.ValidationError{Field: "default_value", Message: "default value must be within range"}
		}
	case models.MatrixConfig:
		if len(c.Rows) == 0 || len(c.Columns) == 0 {
			return validation.ValidationError{Field: "matrix", Message: "matrix needs at least one row and one column"}
		}
	case models.OpenEndedConfig:
		if c.CharacterLimit != nil && *c.CharacterLimit <= 0 {
			return validation.ValidationError{Field: "character_limit", Message: "character limit must be positive"}
		}
	}
	return nil
}

func validateOptions(options []models.Option) error {
	for _, o := range options {
		if strings.TrimSpace(o.OptionText) == "" {
			return validation.ValidationError{Field: "options", Message: "options cannot be blank"}
		}
	}
	return nil
}
