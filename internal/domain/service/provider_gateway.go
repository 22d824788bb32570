package service

import (
	"context"

	"authflow/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrProviderRequest is wrapped by every gateway failure: transport errors,
// non-200 responses and payloads carrying an error field alike.
var ErrProviderRequest = errors.New("provider request failed")

// ProviderGateway talks to one external identity provider.
// Each call is a single round trip; there are no retries.
type ProviderGateway interface {
	// Provider returns the provider this gateway serves.
	Provider() entity.ProviderType

	// AuthorizationURL builds the consent page URL carrying state.
	AuthorizationURL(state string) string

	// ExchangeCode trades an authorization code for provider tokens.
	ExchangeCode(ctx context.Context, code string) (*entity.ProviderToken, error)

	// FetchProfile loads and normalizes the profile of the token owner.
	FetchProfile(ctx context.Context, token *entity.ProviderToken) (*entity.ProviderProfile, error)
}

// ProviderRegistry resolves the gateway of a configured provider.
type ProviderRegistry interface {
	Gateway(provider entity.ProviderType) (ProviderGateway, bool)
}
