package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familyhub/internal/service"
	"familyhub/internal/storage"
)

// MediaHandler handles media uploads
type MediaHandler struct {
	authService *service.AuthService
	store       *storage.MediaStore
	maxSize     int64
	logger      *zap.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(authService *service.AuthService, store *storage.MediaStore, maxSize int64, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		authService: authService,
		store:       store,
		maxSize:     maxSize,
		logger:      logger,
	}
}

// Upload handles POST /api/media with a multipart "file" field. The result
// can be attached to a question.
func (h *MediaHandler) Upload(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	if !h.store.IsEnabled() {
		respondWithServiceError(c, h.logger, storage.ErrStorageDisabled)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize)
	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "a file of at most the upload limit is required", "", nil)
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "unreadable upload", "failed to open upload", err)
		return
	}
	defer file.Close()

	upload, err := h.store.Upload(c.Request.Context(), user, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, upload)
}
