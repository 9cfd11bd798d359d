package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"familyhub/internal/models"
	"familyhub/internal/security"
	"familyhub/internal/service"
	"familyhub/internal/storage"
	"familyhub/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondWithErrorWritesEnvelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/teapot", nil)

	respondWithError(c, zap.NewNop(), http.StatusTeapot, "Teapot", "", nil)

	if recorder.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}
	var body envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Success || body.Error != "Teapot" {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/boom", nil)

	respondWithError(c, zap.New(core), http.StatusInternalServerError, "Internal server error", "", errors.New("boom"))

	entries := logs.FilterMessage("Internal server error").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["error"]; got != "boom" {
		t.Fatalf("expected log to include error, got %v", got)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{validation.ValidationError{Field: "email", Message: "invalid email format"}, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", models.ErrConfigMismatch), http.StatusBadRequest},
		{service.ErrInvalidQuestionType, http.StatusBadRequest},
		{service.ErrNoFamily, http.StatusBadRequest},
		{security.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrSignupClosed, http.StatusForbidden},
		{service.ErrQuestionNotFound, http.StatusNotFound},
		{service.ErrInviteNotFound, http.StatusNotFound},
		{service.ErrInviteUsed, http.StatusConflict},
		{service.ErrEmailTaken, http.StatusConflict},
		{service.ErrInviteExpired, http.StatusGone},
		{storage.ErrUnsupportedMedia, http.StatusUnsupportedMediaType},
		{storage.ErrStorageDisabled, http.StatusServiceUnavailable},
		{errors.New("database is on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, msg := errorStatus(tt.err)
			if got != tt.want {
				t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
			if got == http.StatusInternalServerError && msg != "internal server error" {
				t.Errorf("internal error leaked message %q", msg)
			}
		})
	}
}
