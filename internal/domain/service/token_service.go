package service

import (
	"authflow/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	AccountID uuid.UUID    `json:"account_id"`
	Scope     entity.Scope `json:"scope"`
	Challenge string       `json:"challenge"`
	Type      string       `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService mints and validates first-party session credentials.
// Issue performs no I/O; persisting the refresh credential is the caller's job.
type TokenService interface {
	// Issue generates a fresh challenge and signs an access and a refresh token embedding it.
	Issue(accountID uuid.UUID, scope entity.Scope) (*entity.Session, error)

	// ValidateToken checks signature, expiry and type of a token and returns its claims.
	ValidateToken(tokenString, tokenType string) (*Claims, error)

	// HashToken returns the digest under which a refresh credential is stored.
	HashToken(token string) string
}
