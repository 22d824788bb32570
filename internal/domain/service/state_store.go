package service

import "authflow/internal/domain/entity"

// StateStore remembers the OAuth state values this process handed out.
type StateStore interface {
	// Issue creates and remembers a new state for the provider.
	Issue(provider entity.ProviderType) (string, error)

	// Consume reports whether state was issued for provider and is unused, and forgets it.
	Consume(state string, provider entity.ProviderType) bool
}
