package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"authflow/config"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/service"
)

const (
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/userinfo/v2/me"
)

var googleScopes = []string{
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
}

// googleGateway exchanges codes with POST and sends the access token as a Bearer header.
type googleGateway struct {
	*oauthClient
}

// NewGoogleGateway creates the Google gateway from its app configuration.
func NewGoogleGateway(cfg *config.ProviderConfig) service.ProviderGateway {
	return &googleGateway{
		oauthClient: newOAuthClient(entity.ProviderGoogle, cfg, google.Endpoint, googleScopes, googleTokenURL, googleUserInfoURL),
	}
}

// AuthorizationURL asks for offline access and forces the consent screen so a refresh token is returned.
func (g *googleGateway) AuthorizationURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeCode exchanges an authorization code for provider tokens
func (g *googleGateway) ExchangeCode(ctx context.Context, code string) (*entity.ProviderToken, error) {
	data := url.Values{}
	data.Set("client_id", g.oauth.ClientID)
	data.Set("client_secret", g.oauth.ClientSecret)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", g.oauth.RedirectURL)

	req, err := newRequest(ctx, http.MethodPost, g.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	payload, err := g.fetchJSON(req)
	if err != nil {
		return nil, err
	}

	return g.tokenFromPayload(payload)
}

// FetchProfile retrieves the userinfo of the token owner
func (g *googleGateway) FetchProfile(ctx context.Context, token *entity.ProviderToken) (*entity.ProviderProfile, error) {
	req, err := newRequest(ctx, http.MethodGet, g.profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	payload, err := g.fetchJSON(req)
	if err != nil {
		return nil, err
	}

	return NormalizeProfile(entity.ProviderGoogle, payload)
}
