package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familyhub/internal/models"
	"familyhub/internal/service"
	"familyhub/internal/validation"
)

// QuestionRequest is the body for POST /api/questions
type QuestionRequest struct {
	Question      string              `json:"question"`
	Type          models.QuestionType `json:"type"`
	Config        json.RawMessage     `json:"config"`
	MediaType     *models.MediaType   `json:"media_type"`
	FileURL       string              `json:"file_url"`
	FolderPath    string              `json:"folder_path"`
	QuestionSetID *int64              `json:"question_set_id"`
}

// QuestionUpdateRequest is the body for PUT /api/questions/:id. Config is only
// decoded to be refused.
type QuestionUpdateRequest struct {
	Question   *string           `json:"question"`
	MediaType  *models.MediaType `json:"media_type"`
	FileURL    *string           `json:"file_url"`
	FolderPath *string           `json:"folder_path"`
	ClearMedia bool              `json:"clear_media"`
	Config     json.RawMessage   `json:"config"`
}

// CommentRequest is the body for POST /api/questions/:id/comments
type CommentRequest struct {
	Body string `json:"body"`
}

// QuestionHandler handles question and engagement endpoints
type QuestionHandler struct {
	questionService *service.QuestionService
	logger          *zap.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService *service.QuestionService, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, logger: logger}
}

// CreateQuestion handles POST /api/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	cfg, err := models.DecodeTypeConfig(req.Type, req.Config)
	if err != nil {
		respondWithServiceError(c, h.logger, validation.ValidationError{Field: "config", Message: "invalid configuration"})
		return
	}

	q, err := h.questionService.CreateQuestion(c.Request.Context(), id, service.CreateQuestionInput{
		Question:      req.Question,
		Type:          req.Type,
		Config:        cfg,
		MediaType:     req.MediaType,
		FileURL:       req.FileURL,
		FolderPath:    req.FolderPath,
		QuestionSetID: req.QuestionSetID,
	})
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, q)
}

// ListQuestions handles GET /api/questions
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questions, err := h.questionService.ListFamilyQuestions(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, questions)
}

// GetQuestion handles GET /api/questions/:id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questionID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	q, err := h.questionService.GetQuestion(c.Request.Context(), id, questionID)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, q)
}

// UpdateQuestion handles PUT /api/questions/:id. The type and configuration
// cannot change; a config in the body is rejected.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questionID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	var req QuestionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	if len(req.Config) > 0 && string(req.Config) != "null" {
		respondWithServiceError(c, h.logger, validation.ValidationError{Field: "config", Message: "question configuration cannot be changed"})
		return
	}

	q, err := h.questionService.UpdateQuestion(c.Request.Context(), id, questionID, service.UpdateQuestionInput{
		Question:   req.Question,
		MediaType:  req.MediaType,
		FileURL:    req.FileURL,
		FolderPath: req.FolderPath,
		ClearMedia: req.ClearMedia,
	})
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, q)
}

// DeleteQuestion handles DELETE /api/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questionID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.questionService.DeleteQuestion(c.Request.Context(), id, questionID); err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": questionID})
}

// LikeQuestion handles POST /api/questions/:id/like
func (h *QuestionHandler) LikeQuestion(c *gin.Context) {
	h.like(c, true)
}

// UnlikeQuestion handles DELETE /api/questions/:id/like
func (h *QuestionHandler) UnlikeQuestion(c *gin.Context) {
	h.like(c, false)
}

func (h *QuestionHandler) like(c *gin.Context, liked bool) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questionID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	var count int
	var err error
	if liked {
		count, err = h.questionService.LikeQuestion(c.Request.Context(), id, questionID)
	} else {
		count, err = h.questionService.UnlikeQuestion(c.Request.Context(), id, questionID)
	}
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"liked": liked, "like_count": count})
}

// AddComment handles POST /api/questions/:id/comments
func (h *QuestionHandler) AddComment(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questionID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	comment, err := h.questionService.AddComment(c.Request.Context(), id, questionID, req.Body)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, comment)
}

// ListComments handles GET /api/questions/:id/comments
func (h *QuestionHandler) ListComments(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questionID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	comments, err := h.questionService.ListComments(c.Request.Context(), id, questionID)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, comments)
}
