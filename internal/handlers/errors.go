package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familyhub/internal/models"
	"familyhub/internal/security"
	"familyhub/internal/service"
	"familyhub/internal/storage"
	"familyhub/internal/validation"
)

// envelope is the body of every API response
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondWithError(c *gin.Context, logger *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logger.Error(logMsg,
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}

	c.AbortWithStatusJSON(status, envelope{Success: false, Error: userMsg})
}

// errorStatus maps a service error to a status and a message safe to show
// callers. Unknown errors are reported as internal.
func errorStatus(err error) (int, string) {
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Message
	}

	switch {
	case errors.Is(err, models.ErrConfigMismatch),
		errors.Is(err, service.ErrInvalidQuestionType):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNoFamily), errors.Is(err, storage.ErrNoFamily):
		return http.StatusBadRequest, service.ErrNoFamily.Error()
	case errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrSignupClosed):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrFamilyNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrAnswerNotFound),
		errors.Is(err, service.ErrInviteNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInviteUsed),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyInFamily):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInviteExpired):
		return http.StatusGone, err.Error()
	case errors.Is(err, storage.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType, storage.ErrUnsupportedMedia.Error()
	case errors.Is(err, service.ErrEmailDisabled), errors.Is(err, storage.ErrStorageDisabled):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, service.ErrInviteNotCreated):
		return http.StatusInternalServerError, service.ErrInviteNotCreated.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondWithServiceError converts err into the error envelope. Only
// unexpected errors are logged.
func respondWithServiceError(c *gin.Context, logger *zap.Logger, err error) {
	status, msg := errorStatus(err)
	if status < http.StatusInternalServerError {
		respondWithError(c, logger, status, msg, "", nil)
		return
	}
	respondWithError(c, logger, status, msg, "request failed", err)
}
