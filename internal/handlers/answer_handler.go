package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familyhub/internal/service"
)

// AnswerRequest carries a raw answer. Answer may be any JSON value; it is
// normalized for the question type by the service.
type AnswerRequest struct {
	Answer   interface{}            `json:"answer"`
	Metadata map[string]interface{} `json:"metadata"`
}

// AnswerHandler handles answer endpoints
type AnswerHandler struct {
	answerService *service.AnswerService
	logger        *zap.Logger
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerService *service.AnswerService, logger *zap.Logger) *AnswerHandler {
	return &AnswerHandler{answerService: answerService, logger: logger}
}

// SubmitAnswer handles POST /api/questions/:id/answers
func (h *AnswerHandler) SubmitAnswer(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questionID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	answer, err := h.answerService.SubmitAnswer(c.Request.Context(), id, service.SubmitAnswerInput{
		QuestionID: questionID,
		Answer:     req.Answer,
		Metadata:   req.Metadata,
	})
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, answer)
}

// ListAnswers handles GET /api/questions/:id/answers
func (h *AnswerHandler) ListAnswers(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questionID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	answers, err := h.answerService.ListAnswers(c.Request.Context(), id, questionID)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, answers)
}

// GetMyAnswer handles GET /api/questions/:id/answers/mine
func (h *AnswerHandler) GetMyAnswer(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	questionID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	answer, err := h.answerService.GetAnswer(c.Request.Context(), id, questionID)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, answer)
}

// UpdateAnswer handles PUT /api/answers/:id
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	answerID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	answer, err := h.answerService.UpdateAnswer(c.Request.Context(), id, answerID, req.Answer, req.Metadata)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, answer)
}

// DeleteAnswer handles DELETE /api/answers/:id
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	answerID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.answerService.DeleteAnswer(c.Request.Context(), id, answerID); err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": answerID})
}
