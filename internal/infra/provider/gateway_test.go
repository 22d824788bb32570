package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"authflow/config"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func testProviderConfig(server *httptest.Server) *config.ProviderConfig {
	return &config.ProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:3000/auth/authenticating",
		TokenURL:     server.URL + "/token",
		ProfileURL:   server.URL + "/me",
		Timeout:      5 * time.Second,
	}
}

func TestGoogleGateway_ExchangeAndFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "auth-code", r.PostForm.Get("code"))
			assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
			assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"access_token":  "g-access",
				"refresh_token": "g-refresh",
				"token_type":    "Bearer",
				"expires_in":    3599,
			})
		case "/me":
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "Bearer g-access", r.Header.Get("Authorization"))
			assert.Empty(t, r.URL.Query().Get("access_token"))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"id":          "1122334455",
				"given_name":  "Juan",
				"family_name": "Cruz",
				"email":       "juan@example.com",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	gateway := NewGoogleGateway(testProviderConfig(server))
	assert.Equal(t, entity.ProviderGoogle, gateway.Provider())

	token, err := gateway.ExchangeCode(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "g-access", token.AccessToken)
	assert.Equal(t, "g-refresh", token.RefreshToken)
	assert.Equal(t, int64(3599), token.ExpiresIn)
	assert.WithinDuration(t, time.Now().Add(3599*time.Second), token.ExpiresAt, 5*time.Second)

	profile, err := gateway.FetchProfile(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &entity.ProviderProfile{
		Provider:   entity.ProviderGoogle,
		ExternalID: "1122334455",
		FirstName:  "Juan",
		LastName:   "Cruz",
		Email:      "juan@example.com",
	}, profile)
}

func TestFacebookGateway_ExchangeAndFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/token":
			assert.Equal(t, "fb-code", r.URL.Query().Get("code"))
			assert.Equal(t, "client-secret", r.URL.Query().Get("client_secret"))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"access_token": "fb-access",
				"token_type":   "bearer",
				"expires_in":   5183944,
			})
		case "/me":
			assert.Equal(t, "fb-access", r.URL.Query().Get("access_token"))
			assert.Contains(t, r.URL.Query().Get("fields"), "first_name")
			writeJSON(t, w, http.StatusOK, map[string]any{
				"id":          "10220000000000001",
				"first_name":  "Maria",
				"middle_name": "Santos",
				"last_name":   "Reyes",
				"location":    map[string]any{"id": "1", "name": "Quezon City, Philippines"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	gateway := NewFacebookGateway(testProviderConfig(server))

	token, err := gateway.ExchangeCode(context.Background(), "fb-code")
	require.NoError(t, err)
	assert.Equal(t, "fb-access", token.AccessToken)
	assert.Empty(t, token.RefreshToken)

	profile, err := gateway.FetchProfile(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "10220000000000001", profile.ExternalID)
	assert.Equal(t, "Maria", profile.FirstName)
	assert.Equal(t, "Santos", profile.MiddleName)
	assert.Equal(t, "Reyes", profile.LastName)
	assert.Equal(t, "Quezon City", profile.City)
	assert.Equal(t, "Philippines", profile.Country)
	assert.Empty(t, profile.Email)
}

func TestGateway_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "error field with 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{"error": "invalid_grant"})
			},
		},
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusBadRequest, map[string]any{"message": "bad code"})
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>oops</html>"))
			},
		},
		{
			name: "missing access token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{"token_type": "Bearer"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			for _, gateway := range []service.ProviderGateway{
				NewGoogleGateway(testProviderConfig(server)),
				NewFacebookGateway(testProviderConfig(server)),
			} {
				token, err := gateway.ExchangeCode(context.Background(), "code")
				assert.ErrorIs(t, err, service.ErrProviderRequest, gateway.Provider())
				assert.Nil(t, token)
			}
		})
	}
}

func TestGateway_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	cfg := testProviderConfig(server)
	server.Close()

	_, err := NewGoogleGateway(cfg).ExchangeCode(context.Background(), "code")
	assert.ErrorIs(t, err, service.ErrProviderRequest)
}

func TestGateway_ProfileWithoutIDFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"given_name": "Nobody"})
	}))
	defer server.Close()

	_, err := NewGoogleGateway(testProviderConfig(server)).FetchProfile(context.Background(), &entity.ProviderToken{AccessToken: "x"})
	assert.ErrorIs(t, err, service.ErrProviderRequest)
}

func TestGoogleGateway_AuthorizationURL(t *testing.T) {
	gateway := NewGoogleGateway(&config.ProviderConfig{
		ClientID:    "client-id",
		RedirectURI: "http://localhost:3000/auth/authenticating",
	})

	raw := gateway.AuthorizationURL("G-nonce")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "G-nonce", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")
}

func TestFacebookGateway_AuthorizationURL(t *testing.T) {
	gateway := NewFacebookGateway(&config.ProviderConfig{ClientID: "fb-app"})

	u, err := url.Parse(gateway.AuthorizationURL("F-nonce"))
	require.NoError(t, err)
	assert.Equal(t, "/v11.0/dialog/oauth", u.Path)
	assert.Equal(t, "F-nonce", u.Query().Get("state"))
	assert.Equal(t, "email", u.Query().Get("scope"))
}
