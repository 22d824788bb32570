package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"authflow/config"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/repository"
	"authflow/internal/domain/service"
	"authflow/internal/infra/auth"
	"authflow/internal/infra/persistence/postgres"
	"authflow/internal/infra/provider"
	"authflow/internal/infra/validation"
	mockService "authflow/internal/mocks/service"
	"authflow/internal/testutil"
	"authflow/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	cfg          *config.Config
	db           *gorm.DB
	gateway      *mockService.MockProviderGateway
	publisher    *mockService.MockEventPublisher
	tokenService service.TokenService
	stateStore   *auth.StateStore
	registry     service.ProviderRegistry
	txManager    repository.TransactionManager
	identityRepo repository.IdentityRepository
	logger       *slog.Logger
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:    "access-secret",
			Refresh:   "refresh-secret",
			Challenge: "challenge-secret",
		},
		Auth: &config.AuthConfig{
			AccessTTL:    5 * time.Minute,
			RefreshTTL:   24 * time.Hour,
			StateTTL:     time.Minute,
			DefaultScope: "owner",
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := testConfig()
	db := testutil.NewDB(t)

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	stateStore := auth.NewStateStore(cfg)
	t.Cleanup(stateStore.Stop)

	gateway := mockService.NewMockProviderGateway(t)
	gateway.EXPECT().Provider().Return(entity.ProviderGoogle).Maybe()

	publisher := mockService.NewMockEventPublisher(t)

	return &fixture{
		cfg:          cfg,
		db:           db,
		gateway:      gateway,
		publisher:    publisher,
		tokenService: tokenService,
		stateStore:   stateStore,
		registry:     provider.NewRegistryFromGateways(gateway),
		txManager:    postgres.NewTransactionManager(db),
		identityRepo: postgres.NewIdentityRepository(db),
		logger:       slog.New(slog.DiscardHandler),
	}
}

func (f *fixture) oauthService() *oauthService {
	return NewOAuthService(OAuthServiceParams{
		Providers:    f.registry,
		IdentityRepo: f.identityRepo,
		TxManager:    f.txManager,
		TokenService: f.tokenService,
		StateStore:   f.stateStore,
		Publisher:    f.publisher,
		Config:       f.cfg,
		Logger:       f.logger,
	}).(*oauthService)
}

func (f *fixture) registrationService() *registrationService {
	return NewRegistrationService(RegistrationServiceParams{
		Providers:    f.registry,
		IdentityRepo: f.identityRepo,
		TxManager:    f.txManager,
		Validator:    validation.New(),
		Hasher:       auth.NewBcryptHasherWithCost(4),
		TokenService: f.tokenService,
		Publisher:    f.publisher,
		Config:       f.cfg,
		Logger:       f.logger,
	}).(*registrationService)
}

// expectProvider makes the gateway return token and profile for code.
func (f *fixture) expectProvider(code string, token *entity.ProviderToken, profile *entity.ProviderProfile) {
	f.gateway.EXPECT().ExchangeCode(mock.Anything, code).Return(token, nil).Once()
	f.gateway.EXPECT().FetchProfile(mock.Anything, token).Return(profile, nil).Once()
}

// expectEvent accepts one published event of the given type.
func (f *fixture) expectEvent(eventType service.AuthEventType) {
	f.publisher.EXPECT().
		PublishAuthEvent(mock.Anything, mock.MatchedBy(func(e *service.AuthEvent) bool { return e.Type == eventType })).
		Return(nil).Once()
}

func googleProfile(externalID string) *entity.ProviderProfile {
	return &entity.ProviderProfile{
		Provider:   entity.ProviderGoogle,
		ExternalID: externalID,
		FirstName:  "Alice",
		LastName:   "Smith",
		Email:      "alice@example.com",
	}
}

func validRegistration(externalID string) entity.AccountRegistration {
	return entity.AccountRegistration{
		ExternalID: externalID,
		FirstName:  "Alice",
		LastName:   "Smith",
		Email:      "alice@example.com",
		Phone:      "+15551234567",
		Country:    "Poland",
		Province:   "Mazowieckie",
		City:       "Warsaw",
		District:   "Mokotow",
		Password:   "correct horse battery",
		OriginIP:   "203.0.113.7",
	}
}

// register runs the full two-phase flow for externalID and returns the issued session.
func (f *fixture) register(t *testing.T, externalID string) *entity.Session {
	t.Helper()
	ctx := context.Background()

	token := &entity.ProviderToken{AccessToken: "pa-" + externalID, RefreshToken: "pr-" + externalID}
	f.expectProvider("code-"+externalID, token, googleProfile(externalID))

	out, err := f.oauthService().HandleCallback(ctx, &usecase.CallbackInput{Provider: "google", Code: "code-" + externalID})
	require.NoError(t, err)
	require.Equal(t, usecase.OutcomeAwaitingCompletion, out.Outcome)

	f.expectEvent(service.EventAccountRegistered)
	session, err := f.registrationService().CompleteRegistration(ctx, &usecase.CompleteRegistrationInput{
		Provider:     "google",
		Registration: validRegistration(externalID),
	})
	require.NoError(t, err)

	return session
}
