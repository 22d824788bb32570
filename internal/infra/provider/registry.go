package provider

import (
	"log/slog"

	"authflow/config"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/service"
)

// Registry resolves gateways by provider. Providers without configuration are absent.
type Registry struct {
	gateways map[entity.ProviderType]service.ProviderGateway
}

// NewRegistry builds a gateway for every configured provider.
func NewRegistry(cfg *config.Config, logger *slog.Logger) service.ProviderRegistry {
	var gateways []service.ProviderGateway
	if p := cfg.Providers.Google; p != nil && p.ClientID != "" {
		gateways = append(gateways, NewGoogleGateway(p))
	}
	if p := cfg.Providers.Facebook; p != nil && p.ClientID != "" {
		gateways = append(gateways, NewFacebookGateway(p))
	}

	for _, g := range gateways {
		logger.Info("OAuth provider enabled", slog.String("provider", g.Provider().String()))
	}

	return NewRegistryFromGateways(gateways...)
}

// NewRegistryFromGateways builds a registry from ready gateways.
func NewRegistryFromGateways(gateways ...service.ProviderGateway) *Registry {
	r := &Registry{gateways: make(map[entity.ProviderType]service.ProviderGateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Provider()] = g
	}

	return r
}

// Gateway returns the gateway of provider when it is supported and configured.
func (r *Registry) Gateway(provider entity.ProviderType) (service.ProviderGateway, bool) {
	if !provider.IsValid() {
		return nil, false
	}
	g, ok := r.gateways[provider]

	return g, ok
}
