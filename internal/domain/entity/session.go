package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the result of a successful sign-in: a short-lived access credential,
// a longer-lived refresh credential, and the challenge embedded in both.
type Session struct {
	AccountID        uuid.UUID
	Scope            Scope
	AccessToken      string
	RefreshToken     string
	Challenge        string // Delivered to the browser in an http-only cookie.
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	OriginIP         string
}

// LoginToken is the server-side record of the current session of an account.
// Only one row exists per account; a new sign-in overwrites it.
type LoginToken struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Provider   ProviderType
	ExternalID string
	TokenHash  string // SHA-256 of the refresh credential; the raw value only goes to the client.
	OriginIP   string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsExpired reports whether the stored refresh credential is past its expiry.
func (t *LoginToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
