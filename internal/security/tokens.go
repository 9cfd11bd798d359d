package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"familyhub/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the caller identity inside a signed session token
type Claims struct {
	UserID   int64          `json:"user_id"`
	FamilyID int64          `json:"family_id,omitempty"`
	Email    string         `json:"email"`
	Persona  models.Persona `json:"persona"`
	IsAdmin  bool           `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the identity encoded in the claims
func (c *Claims) Identity() models.Identity {
	return models.Identity{
		UserID:   c.UserID,
		FamilyID: c.FamilyID,
		Email:    c.Email,
		Persona:  c.Persona,
		IsAdmin:  c.IsAdmin,
	}
}

// TokenManager issues and verifies HS256 session tokens
type TokenManager struct {
	secret   []byte
	duration time.Duration
}

// NewTokenManager creates a token manager signing with secret
func NewTokenManager(secret string, duration time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		duration: duration,
	}
}

// Issue signs a token for the given identity
func (m *TokenManager) Issue(id models.Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.duration)
	claims := Claims{
		UserID:   id.UserID,
		FamilyID: id.FamilyID,
		Email:    id.Email,
		Persona:  id.Persona,
		IsAdmin:  id.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses a token and returns its claims when the signature and expiry are valid
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
