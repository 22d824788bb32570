// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"authflow/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for identity persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrIdentityNotFound is returned when no identity exists for a provider and external id.
	ErrIdentityNotFound = errors.New("provider identity not found")
	// ErrIdentityNotPending is returned when promotion targets an identity that is missing or already linked.
	ErrIdentityNotPending = errors.New("provider identity is not pending")
)

// IdentityRepository is the store of provider identities and the accounts they link to.
// Every method runs in its own transaction, or in a savepoint when called on a
// transaction-bound instance.
type IdentityRepository interface {
	// FindLinked returns the account linked to the identity.
	// Pending identities are invisible here and yield ErrIdentityNotFound.
	FindLinked(ctx context.Context, provider entity.ProviderType, externalID string) (*entity.LocalAccount, error)

	// FindByExternalID returns the identity whether pending or linked.
	FindByExternalID(ctx context.Context, provider entity.ProviderType, externalID string) (*entity.ProviderIdentity, error)

	// UpsertPending inserts a pending identity or refreshes the tokens of the existing one.
	// It never modifies the linked account of an existing row.
	UpsertPending(ctx context.Context, provider entity.ProviderType, externalID string, token *entity.ProviderToken) (*entity.ProviderIdentity, error)

	// Promote creates the account and links the pending identity to it atomically.
	// It returns ErrIdentityNotPending if the identity is missing or already linked,
	// including when a concurrent promotion won the race.
	Promote(ctx context.Context, provider entity.ProviderType, externalID string, account *entity.LocalAccount) error

	// RefreshTokens updates the stored provider tokens of a linked identity.
	RefreshTokens(ctx context.Context, provider entity.ProviderType, externalID string, token *entity.ProviderToken) error
}
