package provider

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/oauth2/facebook"

	"authflow/config"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/service"
)

const (
	facebookAuthURL    = "https://www.facebook.com/v11.0/dialog/oauth"
	facebookTokenURL   = "https://graph.facebook.com/v11.0/oauth/access_token"
	facebookProfileURL = "https://graph.facebook.com/me"
	facebookFields     = "id,first_name,last_name,middle_name,location,hometown,email"
)

// facebookGateway uses GET throughout and passes every credential in the query string.
type facebookGateway struct {
	*oauthClient
}

// NewFacebookGateway creates the Facebook gateway from its app configuration.
func NewFacebookGateway(cfg *config.ProviderConfig) service.ProviderGateway {
	endpoint := facebook.Endpoint
	endpoint.AuthURL = facebookAuthURL

	return &facebookGateway{
		oauthClient: newOAuthClient(entity.ProviderFacebook, cfg, endpoint, []string{"email"}, facebookTokenURL, facebookProfileURL),
	}
}

func (f *facebookGateway) AuthorizationURL(state string) string {
	return f.oauth.AuthCodeURL(state)
}

func (f *facebookGateway) ExchangeCode(ctx context.Context, code string) (*entity.ProviderToken, error) {
	params := url.Values{}
	params.Set("client_id", f.oauth.ClientID)
	params.Set("client_secret", f.oauth.ClientSecret)
	params.Set("redirect_uri", f.oauth.RedirectURL)
	params.Set("code", code)

	req, err := newRequest(ctx, http.MethodGet, withQuery(f.tokenURL, params), nil)
	if err != nil {
		return nil, err
	}

	payload, err := f.fetchJSON(req)
	if err != nil {
		return nil, err
	}

	return f.tokenFromPayload(payload)
}

func (f *facebookGateway) FetchProfile(ctx context.Context, token *entity.ProviderToken) (*entity.ProviderProfile, error) {
	params := url.Values{}
	params.Set("access_token", token.AccessToken)
	params.Set("fields", facebookFields)

	req, err := newRequest(ctx, http.MethodGet, withQuery(f.profileURL, params), nil)
	if err != nil {
		return nil, err
	}

	payload, err := f.fetchJSON(req)
	if err != nil {
		return nil, err
	}

	return NormalizeProfile(entity.ProviderFacebook, payload)
}

// withQuery appends params to base, keeping any query already present.
func withQuery(base string, params url.Values) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + params.Encode()
	}

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}
