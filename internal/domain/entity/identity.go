package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderIdentity links one external account to the system.
// While LinkedAccountID is nil the identity is pending: the provider callback
// succeeded but the user has not completed registration yet.
type ProviderIdentity struct {
	ID              uuid.UUID
	Provider        ProviderType
	ExternalID      string // Unique per provider, e.g. Google's 'sub' or the Facebook user id.
	AccessToken     string
	RefreshToken    string
	TokenExpiresAt  time.Time
	LinkedAccountID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsPending reports whether the identity still waits for registration completion.
func (i *ProviderIdentity) IsPending() bool {
	return i.LinkedAccountID == nil
}

// ApplyToken copies the provider credentials onto the identity.
func (i *ProviderIdentity) ApplyToken(token *ProviderToken) {
	if token == nil {
		return
	}
	i.AccessToken = token.AccessToken
	i.RefreshToken = token.RefreshToken
	i.TokenExpiresAt = token.ExpiresAt
}
