package impl

import (
	"context"
	"log/slog"
	"strings"

	"authflow/config"
	deliverycontext "authflow/internal/delivery/context"
	"authflow/internal/domain/entity"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/domain/repository"
	"authflow/internal/domain/service"
	"authflow/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Callback states, logged on every transition.
const (
	stateAwaitingCode       = "awaiting_code"
	stateTokenExchanged     = "token_exchanged"
	stateProfileFetched     = "profile_fetched"
	stateExisting           = "existing"
	stateNewPending         = "new_pending"
	stateLoggedIn           = "logged_in"
	stateAwaitingCompletion = "awaiting_completion"
)

// oauthService implements the OAuthUsecase interface.
type oauthService struct {
	providers    service.ProviderRegistry
	identityRepo repository.IdentityRepository
	txManager    repository.TransactionManager
	stateStore   service.StateStore
	requireState bool
	sessions     *sessionRecorder
	logger       *slog.Logger
}

// OAuthServiceParams holds dependencies for OAuthService, injected by Fx.
type OAuthServiceParams struct {
	fx.In

	Providers    service.ProviderRegistry
	IdentityRepo repository.IdentityRepository
	TxManager    repository.TransactionManager
	TokenService service.TokenService
	StateStore   service.StateStore
	Publisher    service.EventPublisher `optional:"true"`
	Config       *config.Config
	Logger       *slog.Logger
}

// NewOAuthService is the constructor for oauthService.
func NewOAuthService(params OAuthServiceParams) usecase.OAuthUsecase {
	requireState := false
	if params.Config != nil && params.Config.Auth != nil {
		requireState = params.Config.Auth.RequireState
	}

	return &oauthService{
		providers:    params.Providers,
		identityRepo: params.IdentityRepo,
		txManager:    params.TxManager,
		stateStore:   params.StateStore,
		requireState: requireState,
		sessions: &sessionRecorder{
			tokenService: params.TokenService,
			publisher:    params.Publisher,
		},
		logger: params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *oauthService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// StartLogin issues a state and builds the provider consent URL.
func (srv *oauthService) StartLogin(ctx context.Context, input *usecase.StartLoginInput) (*usecase.StartLoginOutput, error) {
	provider, gateway, err := srv.resolve(input.Provider, "")
	if err != nil {
		return nil, err
	}

	state, err := srv.stateStore.Issue(provider)
	if err != nil {
		srv.log(ctx).Error("State issuance failed", slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WrapMessage("issue state")
	}

	srv.log(ctx).Debug("Login started", slog.String("provider", provider.String()))

	return &usecase.StartLoginOutput{
		Provider:         provider,
		State:            state,
		AuthorizationURL: gateway.AuthorizationURL(state),
	}, nil
}

// HandleCallback runs the callback state machine.
// Provider and persistence failures are logged here and surface only as generic outcomes.
func (srv *oauthService) HandleCallback(ctx context.Context, input *usecase.CallbackInput) (*usecase.CallbackOutput, error) {
	provider, gateway, err := srv.resolve(input.Provider, input.State)
	if err != nil {
		return nil, err
	}

	// The provider is settled first so an unknown one is always a not-found.
	if strings.TrimSpace(input.Code) == "" {
		return nil, domainerrors.NewValidationError(map[string]string{"code": "Code is required"})
	}

	logger := srv.log(ctx).With(slog.String("provider", provider.String()))
	logger.Debug("Callback received", slog.String("state", stateAwaitingCode))

	if srv.requireState && !srv.stateStore.Consume(input.State, provider) {
		logger.Warn("Rejected callback with unknown or reused state")

		return nil, domainerrors.ErrInvalidState
	}

	token, err := gateway.ExchangeCode(ctx, input.Code)
	if err != nil {
		logger.Error("Code exchange failed", slog.Any("error", err))

		return nil, domainerrors.ErrProviderFailed.WrapMessage("exchange code")
	}
	logger.Debug("Code exchanged", slog.String("state", stateTokenExchanged))

	profile, err := gateway.FetchProfile(ctx, token)
	if err != nil {
		logger.Error("Profile fetch failed", slog.Any("error", err))

		return nil, domainerrors.ErrProviderFailed.WrapMessage("fetch profile")
	}
	logger = logger.With(slog.String("external_id", profile.ExternalID))
	logger.Debug("Profile fetched", slog.String("state", stateProfileFetched))

	account, err := srv.identityRepo.FindLinked(ctx, provider, profile.ExternalID)
	switch {
	case err == nil:
		logger.Debug("Identity is linked", slog.String("state", stateExisting))

		return srv.loginLinked(ctx, logger, account, token, profile, input.OriginIP)
	case errors.Is(err, repository.ErrIdentityNotFound):
		logger.Debug("Identity is new or pending", slog.String("state", stateNewPending))

		return srv.startRegistration(ctx, logger, token, profile)
	default:
		logger.Error("Linked identity lookup failed", slog.Any("error", err))

		return nil, domainerrors.ErrLoginFailed.WrapMessage("find linked identity")
	}
}

// loginLinked refreshes the provider tokens and replaces the account's session in one transaction.
// The session is only returned once that transaction has committed.
func (srv *oauthService) loginLinked(
	ctx context.Context,
	logger *slog.Logger,
	account *entity.LocalAccount,
	token *entity.ProviderToken,
	profile *entity.ProviderProfile,
	originIP string,
) (*usecase.CallbackOutput, error) {
	session, err := srv.sessions.issue(account.ID, account.Scope, originIP)
	if err != nil {
		logger.Error("Session issuance failed", slog.Any("error", err))

		return nil, domainerrors.ErrLoginFailed.WrapMessage("issue session")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewIdentityRepository().RefreshTokens(ctx, profile.Provider, profile.ExternalID, token); err != nil {
			return errors.Wrap(err, "refresh provider tokens")
		}

		return srv.sessions.persist(ctx, repoFactory.NewLoginTokenRepository(), session, profile.Provider, profile.ExternalID)
	})
	if err != nil {
		logger.Error("Login persistence failed", slog.String("account_id", account.ID.String()), slog.Any("error", err))

		return nil, domainerrors.ErrLoginFailed.WrapMessage("persist login")
	}

	logger.Info("Account signed in", slog.String("state", stateLoggedIn), slog.String("account_id", account.ID.String()))
	srv.sessions.publish(ctx, logger, service.EventAccountLoggedIn, session, profile.Provider, profile.ExternalID)

	return &usecase.CallbackOutput{Outcome: usecase.OutcomeLoggedIn, Session: session}, nil
}

// startRegistration stores the provider tokens on a pending identity before the
// browser is redirected to the completion form.
func (srv *oauthService) startRegistration(
	ctx context.Context,
	logger *slog.Logger,
	token *entity.ProviderToken,
	profile *entity.ProviderProfile,
) (*usecase.CallbackOutput, error) {
	if _, err := srv.identityRepo.UpsertPending(ctx, profile.Provider, profile.ExternalID, token); err != nil {
		logger.Error("Pending identity upsert failed", slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationStartFailed.WrapMessage("upsert pending identity")
	}

	logger.Info("Registration started", slog.String("state", stateAwaitingCompletion))

	return &usecase.CallbackOutput{Outcome: usecase.OutcomeAwaitingCompletion, Profile: profile}, nil
}

// resolve picks the provider from the explicit value, or from the state prefix when none is given.
func (srv *oauthService) resolve(raw, state string) (entity.ProviderType, service.ProviderGateway, error) {
	var (
		provider entity.ProviderType
		ok       bool
	)
	if raw != "" {
		provider, ok = entity.ParseProvider(raw)
	} else {
		provider, ok = entity.ProviderFromState(state)
	}
	if !ok {
		return "", nil, domainerrors.ErrUnknownProvider
	}

	gateway, ok := srv.providers.Gateway(provider)
	if !ok {
		return "", nil, domainerrors.ErrUnknownProvider.WrapMessage("provider not configured")
	}

	return provider, gateway, nil
}
