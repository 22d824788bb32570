package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pkg/errors"

	"authflow/config"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/service"
)

const stateNonceBytes = 24

// StateStore keeps issued OAuth states in memory until they are used or expire.
type StateStore struct {
	cache *ttlcache.Cache[string, entity.ProviderType]
}

// NewStateStore creates a state store and starts its expiry loop. Call Stop on shutdown.
func NewStateStore(cfg *config.Config) *StateStore {
	ttl := 10 * time.Minute
	if cfg.Auth != nil && cfg.Auth.StateTTL > 0 {
		ttl = cfg.Auth.StateTTL
	}

	cache := ttlcache.New(
		ttlcache.WithTTL[string, entity.ProviderType](ttl),
		ttlcache.WithDisableTouchOnHit[string, entity.ProviderType](),
	)
	go cache.Start()

	return &StateStore{cache: cache}
}

var _ service.StateStore = (*StateStore)(nil)

// Issue returns a new "<prefix>-<nonce>" state for provider and remembers it.
func (s *StateStore) Issue(provider entity.ProviderType) (string, error) {
	if !provider.IsValid() {
		return "", errors.Errorf("unsupported provider %q", provider)
	}

	nonce := make([]byte, stateNonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "read state entropy")
	}

	state := entity.NewState(provider, hex.EncodeToString(nonce))
	s.cache.Set(state, provider, ttlcache.DefaultTTL)

	return state, nil
}

// Consume accepts a state once, and only for the provider it was issued for.
// Unknown, expired and replayed states are rejected. A state presented for the
// wrong provider is rejected without being spent.
func (s *StateStore) Consume(state string, provider entity.ProviderType) bool {
	if prefixed, ok := entity.ProviderFromState(state); !ok || prefixed != provider {
		return false
	}

	item := s.cache.Get(state)
	if item == nil || item.IsExpired() || item.Value() != provider {
		return false
	}

	// GetAndDelete decides the race between two callbacks carrying the same state.
	_, found := s.cache.GetAndDelete(state)

	return found
}

// Len returns the number of remembered states.
func (s *StateStore) Len() int {
	return s.cache.Len()
}

// Stop ends the expiry loop.
func (s *StateStore) Stop() {
	s.cache.Stop()
}
