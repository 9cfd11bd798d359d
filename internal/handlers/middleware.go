package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familyhub/internal/models"
	"familyhub/internal/security"
	"familyhub/internal/service"
)

const identityContextKey = "identity"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	limiter     security.Limiter
	logger      *zap.Logger
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, limiter security.Limiter, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		limiter:     limiter,
		logger:      logger,
	}
}

// RequireAuth resolves the bearer token into an identity stored on the context
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			respondWithError(c, m.logger, http.StatusUnauthorized, "missing or invalid authorization header", "", nil)
			return
		}

		id, err := m.authService.ResolveToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if service.IsAuthError(err) {
				respondWithError(c, m.logger, http.StatusUnauthorized, "invalid or expired token", "", nil)
				return
			}
			respondWithServiceError(c, m.logger, err)
			return
		}

		c.Set(identityContextKey, id)
		c.Next()
	}
}

// RateLimit rejects clients that exceed the limiter's budget for a route
func (m *Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		if !m.limiter.Allow(c.Request.Context(), key) {
			respondWithError(c, m.logger, http.StatusTooManyRequests, "too many requests, please try again later", "", nil)
			return
		}
		c.Next()
	}
}

// Logging logs every request with its status and latency
func Logging(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("request",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// GetIdentity returns the caller identity set by RequireAuth
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// identity returns the caller identity, aborting with 401 when it is missing
func identity(c *gin.Context, logger *zap.Logger) (models.Identity, bool) {
	id, ok := GetIdentity(c)
	if !ok {
		respondWithError(c, logger, http.StatusUnauthorized, "authentication required", "", nil)
	}
	return id, ok
}

// pathID parses a positive int64 route parameter
func pathID(c *gin.Context, logger *zap.Logger, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(c, logger, http.StatusBadRequest, "invalid "+name, "", nil)
		return 0, false
	}
	return id, true
}
