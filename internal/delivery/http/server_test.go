package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"authflow/config"
	httpmiddleware "authflow/internal/delivery/http/middleware"
	"authflow/internal/delivery/http/response"
	"authflow/internal/delivery/http/router"
	"authflow/internal/delivery/http/router/handler"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/repository"
	"authflow/internal/domain/service"
	"authflow/internal/infra/auth"
	"authflow/internal/infra/persistence/model"
	"authflow/internal/infra/persistence/postgres"
	"authflow/internal/infra/provider"
	"authflow/internal/infra/validation"
	mockService "authflow/internal/mocks/service"
	"authflow/internal/testutil"
	"authflow/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	echo         *echo.Echo
	db           *gorm.DB
	gateway      *mockService.MockProviderGateway
	tokenService service.TokenService
	identityRepo repository.IdentityRepository
}

func newTestServer(t *testing.T, legacyStatus bool) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.HTTP.LegacyStatus = legacyStatus
	cfg.SecretKey = config.SecretKeyConfig{Access: "a", Refresh: "r", Challenge: "c"}
	cfg.Auth = &config.AuthConfig{
		AccessTTL:       5 * time.Minute,
		RefreshTTL:      24 * time.Hour,
		ChallengeCookie: "__security",
		ChallengeMaxAge: 300,
		CompletionPath:  "/auth/finalsteps",
		ErrorRedirect:   "/?error=Registration%20failed",
		StateTTL:        time.Minute,
		DefaultScope:    "owner",
	}

	logger := slog.New(slog.DiscardHandler)
	db := testutil.NewDB(t)

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	stateStore := auth.NewStateStore(cfg)
	t.Cleanup(stateStore.Stop)

	gateway := mockService.NewMockProviderGateway(t)
	gateway.EXPECT().Provider().Return(entity.ProviderGoogle).Maybe()
	registry := provider.NewRegistryFromGateways(gateway)

	txManager := postgres.NewTransactionManager(db)
	identityRepo := postgres.NewIdentityRepository(db)
	validator := validation.New()

	oauth := impl.NewOAuthService(impl.OAuthServiceParams{
		Providers:    registry,
		IdentityRepo: identityRepo,
		TxManager:    txManager,
		TokenService: tokenService,
		StateStore:   stateStore,
		Config:       cfg,
		Logger:       logger,
	})
	registration := impl.NewRegistrationService(impl.RegistrationServiceParams{
		Providers:    registry,
		IdentityRepo: identityRepo,
		TxManager:    txManager,
		Validator:    validator,
		Hasher:       auth.NewBcryptHasherWithCost(4),
		TokenService: tokenService,
		Config:       cfg,
		Logger:       logger,
	})
	sessions := impl.NewSessionService(impl.SessionServiceParams{
		TokenService: tokenService,
		AccountRepo:  postgres.NewAccountRepository(db),
		LoginRepo:    postgres.NewLoginTokenRepository(db),
		Logger:       logger,
	})

	e := NewEcho(ServerParams{
		Cfg:             cfg,
		Logger:          logger,
		Validator:       validator,
		ErrorMiddleware: httpmiddleware.NewErrorMiddleware(logger, cfg),
		RouterParams: router.RouterParams{
			AuthHandler:    handler.NewAuthHandler(oauth, registration, sessions, cfg),
			AuthMiddleware: httpmiddleware.NewAuthMiddleware(sessions, cfg),
		},
	})

	return &testServer{
		echo:         e,
		db:           db,
		gateway:      gateway,
		tokenService: tokenService,
		identityRepo: identityRepo,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

func (s *testServer) expectProvider(code string, token *entity.ProviderToken, profile *entity.ProviderProfile) {
	s.gateway.EXPECT().ExchangeCode(mock.Anything, code).Return(token, nil).Once()
	s.gateway.EXPECT().FetchProfile(mock.Anything, token).Return(profile, nil).Once()
}

func (s *testServer) complete(t *testing.T, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(string(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	return s.do(req)
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return env
}

func completionBody(externalID string) map[string]string {
	return map[string]string{
		"id":         externalID,
		"first_name": "Alice",
		"last_name":  "Smith",
		"email":      "alice@example.com",
		"phone":      "+48 600 100 200",
		"country":    "Poland",
		"province":   "Mazowieckie",
		"city":       "Warsaw",
		"district":   "Mokotow",
		"password":   "correct horse battery",
	}
}

func TestCallback_UnseenIdentityRedirectsToCompletion(t *testing.T) {
	s := newTestServer(t, true)
	s.expectProvider("code-1", &entity.ProviderToken{AccessToken: "pa"}, &entity.ProviderProfile{
		Provider:   entity.ProviderGoogle,
		ExternalID: "g-1",
		FirstName:  "Alice",
		LastName:   "Smith",
	})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/auth/google?code=code-1", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, "/auth/finalsteps", location.Path)
	assert.Equal(t, "g-1", location.Query().Get("id"))
	assert.Equal(t, "Alice", location.Query().Get("first_name"))
	assert.False(t, location.Query().Has("email"), "absent fields are omitted")
	assert.NotContains(t, rec.Body.String(), "access_token")
	assert.Empty(t, rec.Result().Cookies())

	identity, err := s.identityRepo.FindByExternalID(context.Background(), entity.ProviderGoogle, "g-1")
	require.NoError(t, err)
	assert.True(t, identity.IsPending())
}

func TestCallback_LinkedIdentitySignsIn(t *testing.T) {
	s := newTestServer(t, true)

	s.expectProvider("code-1", &entity.ProviderToken{AccessToken: "first"}, &entity.ProviderProfile{Provider: entity.ProviderGoogle, ExternalID: "g-2"})
	require.Equal(t, http.StatusFound, s.do(httptest.NewRequest(http.MethodGet, "/api/auth/google?code=code-1", nil)).Code)
	require.Equal(t, response.StatusSuccess, decode(t, s.complete(t, completionBody("g-2"))).Status)

	s.expectProvider("code-2", &entity.ProviderToken{AccessToken: "second", RefreshToken: "r2"}, &entity.ProviderProfile{Provider: entity.ProviderGoogle, ExternalID: "g-2"})
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=code-2&state=G-anything", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, response.StatusSuccess, env.Status)

	var tokens response.TokenData
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "__security", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, 300, cookies[0].MaxAge)

	identity, err := s.identityRepo.FindByExternalID(context.Background(), entity.ProviderGoogle, "g-2")
	require.NoError(t, err)
	assert.Equal(t, "second", identity.AccessToken)
	assert.Equal(t, "r2", identity.RefreshToken)

	stored, err := postgres.NewLoginTokenRepository(s.db).FindByAccountID(context.Background(), *identity.LinkedAccountID)
	require.NoError(t, err)
	assert.Equal(t, s.tokenService.HashToken(tokens.RefreshToken), stored.TokenHash)
}

func TestCompleteRegistration_ShortFirstName(t *testing.T) {
	s := newTestServer(t, true)
	s.expectProvider("code-1", &entity.ProviderToken{AccessToken: "pa"}, &entity.ProviderProfile{Provider: entity.ProviderGoogle, ExternalID: "g-3"})
	require.Equal(t, http.StatusFound, s.do(httptest.NewRequest(http.MethodGet, "/api/auth/google?code=code-1", nil)).Code)

	body := completionBody("g-3")
	body["first_name"] = "ab"
	rec := s.complete(t, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, response.StatusError, env.Status)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Equal(t, "First Name must be longer than 3", fields["first_name"])

	assert.Zero(t, testutil.Count(t, s.db, &model.AccountModel{}))
}

func TestCompleteRegistration_RecordsOriginIP(t *testing.T) {
	s := newTestServer(t, true)
	s.expectProvider("code-1", &entity.ProviderToken{AccessToken: "pa"}, &entity.ProviderProfile{Provider: entity.ProviderGoogle, ExternalID: "g-4"})
	require.Equal(t, http.StatusFound, s.do(httptest.NewRequest(http.MethodGet, "/api/auth/google?code=code-1", nil)).Code)

	rec := s.complete(t, completionBody("g-4"))
	require.Equal(t, response.StatusSuccess, decode(t, rec).Status)

	var stored model.LoginTokenModel
	require.NoError(t, s.db.First(&stored).Error)
	assert.Equal(t, "203.0.113.7", stored.IPAddress)

	again := decode(t, s.complete(t, completionBody("g-4")))
	assert.Equal(t, response.StatusError, again.Status, "a completed registration cannot be completed twice")
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		legacy     bool
		target     string
		wantStatus int
	}{
		{name: "unknown provider is 404 in legacy mode", legacy: true, target: "/api/auth/myspace?code=x", wantStatus: http.StatusNotFound},
		{name: "unknown provider without code is 404", legacy: true, target: "/api/auth/twitter", wantStatus: http.StatusNotFound},
		{name: "missing code is 200 in legacy mode", legacy: true, target: "/api/auth/google", wantStatus: http.StatusOK},
		{name: "missing code is 400 otherwise", legacy: false, target: "/api/auth/google", wantStatus: http.StatusBadRequest},
		{name: "unauthenticated verify is 401 otherwise", legacy: false, target: "/api/auth/token/verify", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.legacy)

			rec := s.do(httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, response.StatusError, decode(t, rec).Status)
		})
	}
}

func TestStartLogin(t *testing.T) {
	s := newTestServer(t, true)
	s.gateway.EXPECT().
		AuthorizationURL(mock.AnythingOfType("string")).
		RunAndReturn(func(state string) string { return "https://accounts.example.com/o/oauth2/auth?state=" + state }).
		Twice()

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data map[string]string
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Contains(t, data["oauth_url"], "state=G-")

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/auth/google/login?redirect=true", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "https://accounts.example.com/"))
}

func TestVerifyToken(t *testing.T) {
	s := newTestServer(t, false)
	s.expectProvider("code-1", &entity.ProviderToken{AccessToken: "pa"}, &entity.ProviderProfile{Provider: entity.ProviderGoogle, ExternalID: "g-5"})
	require.Equal(t, http.StatusFound, s.do(httptest.NewRequest(http.MethodGet, "/api/auth/google?code=code-1", nil)).Code)

	signedIn := s.complete(t, completionBody("g-5"))
	var tokens response.TokenData
	require.NoError(t, json.Unmarshal(decode(t, signedIn).Data, &tokens))
	cookie := signedIn.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/api/auth/token/verify", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokens.AccessToken)
	req.AddCookie(cookie)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var claims map[string]any
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &claims))
	assert.Equal(t, "owner", claims["scope"])

	req = httptest.NewRequest(http.MethodGet, "/api/auth/token/verify", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokens.AccessToken)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/auth/session", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokens.AccessToken)
	req.AddCookie(cookie)
	rec = s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Negative(t, rec.Result().Cookies()[0].MaxAge)
	assert.Zero(t, testutil.Count(t, s.db, &model.LoginTokenModel{}))

	req = httptest.NewRequest(http.MethodGet, "/api/auth/token/verify", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokens.AccessToken)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code, "a signed out session no longer verifies")
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body.Status)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
