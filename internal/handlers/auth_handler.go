package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familyhub/internal/models"
	"familyhub/internal/service"
)

// RegistrationRequest is the body for POST /api/signup and POST /api/register
type RegistrationRequest struct {
	Token     string         `json:"token"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Phone     string         `json:"phone"`
	Role      string         `json:"role"`
	Persona   models.Persona `json:"persona"`
	Bio       string         `json:"bio"`
}

func (r RegistrationRequest) input() models.RegistrationInput {
	return models.RegistrationInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
		Phone:     r.Phone,
		Role:      r.Role,
		Persona:   r.Persona,
		Bio:       r.Bio,
	}
}

// LoginRequest is the body for POST /api/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned after signup, registration and login
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// AuthHandler handles account and session endpoints
type AuthHandler struct {
	authService     *service.AuthService
	inviteService   *service.InviteService
	questionService *service.QuestionService
	emailService    *service.EmailService
	logger          *zap.Logger
}

// NewAuthHandler creates a new auth handler. emailService may be nil.
func NewAuthHandler(
	authService *service.AuthService,
	inviteService *service.InviteService,
	questionService *service.QuestionService,
	emailService *service.EmailService,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		inviteService:   inviteService,
		questionService: questionService,
		emailService:    emailService,
		logger:          logger,
	}
}

// Signup handles POST /api/signup: an account outside any family
func (h *AuthHandler) Signup(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.input())
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	h.onboard(c.Request.Context(), user)
	h.respondWithToken(c, http.StatusCreated, user)
}

// Register handles POST /api/register: an account joining a family by invite
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	user, err := h.inviteService.RegisterWithInvite(c.Request.Context(), req.input(), req.Token)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	h.onboard(c.Request.Context(), user)
	h.respondWithToken(c, http.StatusCreated, user)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}

	token, expiresAt, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Me handles GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	user, err := h.authService.CurrentUser(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// RegistrationModeRequest is the body for PUT /api/admin/registration
type RegistrationModeRequest struct {
	InviteOnly bool `json:"invite_only"`
}

// GetRegistrationMode handles GET /api/admin/registration
func (h *AuthHandler) GetRegistrationMode(c *gin.Context) {
	inviteOnly, err := h.authService.InviteOnly(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, RegistrationModeRequest{InviteOnly: inviteOnly})
}

// SetRegistrationMode handles PUT /api/admin/registration
func (h *AuthHandler) SetRegistrationMode(c *gin.Context) {
	id, ok := identity(c, h.logger)
	if !ok {
		return
	}
	var req RegistrationModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.logger, http.StatusBadRequest, "invalid request body", "", nil)
		return
	}
	if err := h.authService.SetInviteOnly(c.Request.Context(), id, req.InviteOnly); err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, req)
}

// onboard seeds starter questions and sends a welcome email. Neither failure
// undoes the registration.
func (h *AuthHandler) onboard(ctx context.Context, user *models.User) {
	if err := h.questionService.SeedDefaultQuestions(ctx, user.ID); err != nil {
		h.logger.Warn("failed to seed default questions", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	if h.emailService != nil {
		if err := h.emailService.SendWelcomeEmail(ctx, user.Email, user.FirstName); err != nil {
			h.logger.Warn("failed to send welcome email", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, expiresAt, err := h.authService.IssueToken(user)
	if err != nil {
		respondWithServiceError(c, h.logger, err)
		return
	}
	respond(c, status, TokenResponse{Token: token, ExpiresAt: expiresAt, User: user})
}
