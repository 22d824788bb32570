// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// ProviderType identifies an external OAuth2 identity provider.
type ProviderType string

const (
	// ProviderGoogle signs users in with a Google account.
	ProviderGoogle ProviderType = "google"
	// ProviderFacebook signs users in with a Facebook account.
	ProviderFacebook ProviderType = "facebook"
)

// stateSeparator joins the provider prefix and the random part of an OAuth state value.
const stateSeparator = "-"

// String returns the string representation of the ProviderType.
func (p ProviderType) String() string {
	return string(p)
}

// IsValid checks if the ProviderType is a supported provider.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderFacebook:
		return true
	default:
		return false
	}
}

// StatePrefix is the marker placed in front of the OAuth state so the callback
// can tell which provider issued the code ("G-..." for Google, "F-..." for Facebook).
func (p ProviderType) StatePrefix() string {
	switch p {
	case ProviderGoogle:
		return "G"
	case ProviderFacebook:
		return "F"
	default:
		return ""
	}
}

// ParseProvider converts a route or query value into a ProviderType.
// The second return value is false for anything that is not a supported provider.
func ParseProvider(s string) (ProviderType, bool) {
	p := ProviderType(strings.ToLower(strings.TrimSpace(s)))

	return p, p.IsValid()
}

// ProviderFromState resolves the provider encoded in an OAuth state value.
func ProviderFromState(state string) (ProviderType, bool) {
	prefix, _, found := strings.Cut(state, stateSeparator)
	if !found {
		return "", false
	}

	for _, p := range []ProviderType{ProviderGoogle, ProviderFacebook} {
		if p.StatePrefix() == prefix {
			return p, true
		}
	}

	return "", false
}

// NewState builds an OAuth state value carrying the provider prefix.
func NewState(p ProviderType, nonce string) string {
	return p.StatePrefix() + stateSeparator + nonce
}

// ProviderToken is the credential set returned by a provider's token endpoint.
type ProviderToken struct {
	AccessToken  string
	RefreshToken string // Optional: Facebook never returns one, Google only with offline access.
	TokenType    string
	ExpiresIn    int64     // Lifetime in seconds as reported by the provider.
	ExpiresAt    time.Time // Absolute expiry derived from ExpiresIn at exchange time.
}

// ProviderProfile is the provider-independent shape of a user's external profile.
// ExternalID is the only required field; everything else may be empty.
type ProviderProfile struct {
	Provider   ProviderType
	ExternalID string
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	Phone      string
	Country    string
	Province   string
	City       string
	District   string
}
