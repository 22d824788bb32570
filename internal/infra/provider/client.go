// Package provider implements the gateways to the external OAuth2 identity providers.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"authflow/config"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/service"
)

const maxResponseBytes = 1 << 20

// oauthClient holds what both providers share: app credentials, endpoints and transport.
type oauthClient struct {
	provider   entity.ProviderType
	oauth      *oauth2.Config
	tokenURL   string
	profileURL string
	httpClient *http.Client
	now        func() time.Time
}

func newOAuthClient(provider entity.ProviderType, cfg *config.ProviderConfig, endpoint oauth2.Endpoint, defaultScopes []string, tokenURL, profileURL string) *oauthClient {
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		tokenURL = cfg.TokenURL
	}
	endpoint.TokenURL = tokenURL
	if cfg.ProfileURL != "" {
		profileURL = cfg.ProfileURL
	}

	scopes := defaultScopes
	if len(cfg.Scopes) > 0 {
		scopes = cfg.Scopes
	}

	return &oauthClient{
		provider: provider,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		tokenURL:   tokenURL,
		profileURL: profileURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

// Provider returns the provider this client serves.
func (c *oauthClient) Provider() entity.ProviderType {
	return c.provider
}

// fetchJSON performs req and decodes the JSON body.
// Anything but a 200 carrying an object without an "error" field is a failure.
func (c *oauthClient) fetchJSON(req *http.Request) (map[string]any, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(service.ErrProviderRequest, "%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrapf(service.ErrProviderRequest, "read %s response: %v", req.URL.Path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(service.ErrProviderRequest, "%s %s returned status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, errors.Wrapf(service.ErrProviderRequest, "decode %s response: %v", req.URL.Path, err)
	}
	if payload == nil {
		return nil, errors.Wrapf(service.ErrProviderRequest, "%s returned an empty body", req.URL.Path)
	}
	if errField, ok := payload["error"]; ok && errField != nil {
		return nil, errors.Wrapf(service.ErrProviderRequest, "%s returned error %v", req.URL.Path, errField)
	}

	return payload, nil
}

// tokenFromPayload reads the standard OAuth2 token response fields.
func (c *oauthClient) tokenFromPayload(payload map[string]any) (*entity.ProviderToken, error) {
	token := &entity.ProviderToken{
		AccessToken:  stringField(payload, "access_token"),
		RefreshToken: stringField(payload, "refresh_token"),
		TokenType:    stringField(payload, "token_type"),
		ExpiresIn:    int64Field(payload, "expires_in"),
	}
	if token.AccessToken == "" {
		return nil, errors.Wrap(service.ErrProviderRequest, "token response without access_token")
	}
	if token.ExpiresIn > 0 {
		token.ExpiresAt = c.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return token, nil
}

func newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrapf(service.ErrProviderRequest, "build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}
