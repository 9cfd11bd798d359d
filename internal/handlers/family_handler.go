package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familyhub/internal/service"
)

// FamilyRequest is the body for creating or renaming a family
type FamilyRequest struct {
	Name string `json:"name"`
}

// InviteRequest is the body for POST /api/invites
type InviteRequest struct {
	Email string `json:"email"`
}

// InviteResponse describes a redeemable invite
type InviteResponse struct {
	Token      string     `json:"token"`
	URL        string     `json:"url"`
	FamilyID   int64      `json:"family_id"`
	FamilyName string     `json:"family_name"`
	ExpiresAt  *time.Time `json:"expires_at"`
	EmailSent  bool       `json:"email_sent"`
}

// FamilyHandler handles family and invite endpoints
type FamilyHandler struct {
	familyService *service.FamilyService
	inviteService *service.InviteService
	logger        *zap.Logger
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService, inviteService *service.InviteService, logger *zap.Logger) *FamilyHandler {
	return &FamilyHandler{
		familyService: familyService,
		inviteService: inviteService,
		logger:        logger,
	}
}

// CreateFamily handles POST /api/families
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	var req FamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	family, err := h.familyService.CreateFamily(c.Request.Context(), id, req.Name)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, family)
}

// GetFamily handles GET /api/family
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	family, err := h.familyService.GetFamily(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, family)
}

// GetFamilyByID handles GET /api/families/:id
func (h *FamilyHandler) GetFamilyByID(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	familyID, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	family, err := h.familyService.GetFamilyByID(c.Request.Context(), id, familyID)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, family)
}

// RenameFamily handles PUT /api/family
func (h *FamilyHandler) RenameFamily(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	var req FamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	if err := h.familyService.RenameFamily(c.Request.Context(), id, req.Name); err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"name": req.Name})
}

// CreateInvite handles POST /api/invites. An optional email address receives
// the link; delivery problems are reported in the response, not as errors.
func (h *FamilyHandler) CreateInvite(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	if !id.HasFamily() {
		respondWithServiceError(c, h.logger, service.ErrNoFamily)
		return
	}

	var req InviteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
			return
		}
	}

	createdBy := id.UserID
	invite, err := h.inviteService.CreateInvite(c.Request.Context(), id.FamilyID, &createdBy)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}

	resp := InviteResponse{
		Token:      invite.InviteToken,
		URL:        h.inviteService.InviteURL(invite.InviteToken),
		FamilyID:   invite.FamilyID,
		FamilyName: invite.FamilyName,
		ExpiresAt:  invite.ExpiresAt,
	}

	if req.Email != "" {
		err := h.inviteService.SendInviteEmail(c.Request.Context(), invite, req.Email)
		switch {
		case err == nil:
			resp.EmailSent = true
		case errors.Is(err, service.ErrEmailDisabled):
			h.logger.Info("invite email skipped", zap.Int64("family_id", invite.FamilyID))
		default:
			status, msg := errorStatus(err)
			if status == http.StatusBadRequest {
				respondWithError(c, h.logger, status, msg, "", nil)
				return
			}
			h.logger.Warn("failed to send invite email", zap.Int64("family_id", invite.FamilyID), zap.Error(err))
		}
	}

	respond(c, http.StatusCreated, resp)
}

// ValidateInvite handles GET /api/invites/validate?token=...
func (h *FamilyHandler) ValidateInvite(c *gin.Context) {
	invite, err := h.inviteService.ValidateInvite(c.Request.Context(), c.Query("token"))
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"valid":       true,
		"family_id":   invite.FamilyID,
		"family_name": invite.FamilyName,
		"expires_at":  invite.ExpiresAt,
	})
}
