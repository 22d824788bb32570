package impl

import (
	"context"
	"log/slog"
	"time"

	"authflow/config"
	deliverycontext "authflow/internal/delivery/context"
	"authflow/internal/domain/entity"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/domain/repository"
	"authflow/internal/domain/service"
	"authflow/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// registrationService implements the RegistrationUsecase interface.
type registrationService struct {
	providers    service.ProviderRegistry
	identityRepo repository.IdentityRepository
	txManager    repository.TransactionManager
	validator    service.ProfileValidator
	hasher       service.PasswordHasher
	defaultScope entity.Scope
	sessions     *sessionRecorder
	logger       *slog.Logger
}

// RegistrationServiceParams holds dependencies for RegistrationService, injected by Fx.
type RegistrationServiceParams struct {
	fx.In

	Providers    service.ProviderRegistry
	IdentityRepo repository.IdentityRepository
	TxManager    repository.TransactionManager
	Validator    service.ProfileValidator
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Publisher    service.EventPublisher `optional:"true"`
	Config       *config.Config
	Logger       *slog.Logger
}

// NewRegistrationService is the constructor for registrationService.
func NewRegistrationService(params RegistrationServiceParams) usecase.RegistrationUsecase {
	scope := entity.ScopeOwner
	if params.Config != nil && params.Config.Auth != nil {
		scope = entity.ScopeOrDefault(params.Config.Auth.DefaultScope, entity.ScopeOwner)
	}

	return &registrationService{
		providers:    params.Providers,
		identityRepo: params.IdentityRepo,
		txManager:    params.TxManager,
		validator:    params.Validator,
		hasher:       params.Hasher,
		defaultScope: scope,
		sessions: &sessionRecorder{
			tokenService: params.TokenService,
			publisher:    params.Publisher,
		},
		logger: params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *registrationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CompleteRegistration validates the completion form, creates the local account and
// links the pending identity to it. Account creation, linking and the session row
// commit together or not at all.
func (srv *registrationService) CompleteRegistration(ctx context.Context, input *usecase.CompleteRegistrationInput) (*entity.Session, error) {
	provider, ok := entity.ParseProvider(input.Provider)
	if !ok {
		return nil, domainerrors.ErrUnknownProvider
	}
	if _, ok := srv.providers.Gateway(provider); !ok {
		return nil, domainerrors.ErrUnknownProvider.WrapMessage("provider not configured")
	}

	// The account stores exactly the values that were validated.
	reg := input.Registration.Normalized()
	reg.Provider = provider

	if fields := srv.validator.ValidateRegistration(&reg); len(fields) > 0 {
		return nil, domainerrors.NewValidationError(fields)
	}

	logger := srv.log(ctx).With(
		slog.String("provider", provider.String()),
		slog.String("external_id", reg.ExternalID),
	)

	// Cheap rejection before bcrypt. Promote stays the authoritative check.
	identity, err := srv.identityRepo.FindByExternalID(ctx, provider, reg.ExternalID)
	switch {
	case errors.Is(err, repository.ErrIdentityNotFound), err == nil && !identity.IsPending():
		logger.Warn("Completion rejected, identity is not pending")

		return nil, domainerrors.ErrNotPending
	case err != nil:
		logger.Error("Identity lookup failed", slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage("find identity")
	}

	passwordHash, err := srv.hasher.Hash(reg.Password)
	if err != nil {
		logger.Error("Password hashing failed", slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage("hash password")
	}

	account := newAccount(&reg, passwordHash, srv.defaultScope)

	session, err := srv.sessions.issue(account.ID, account.Scope, reg.OriginIP)
	if err != nil {
		logger.Error("Session issuance failed", slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage("issue session")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewIdentityRepository().Promote(ctx, provider, reg.ExternalID, account); err != nil {
			return err
		}

		return srv.sessions.persist(ctx, repoFactory.NewLoginTokenRepository(), session, provider, reg.ExternalID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrIdentityNotPending) {
			logger.Warn("Completion rejected, identity is not pending")

			return nil, domainerrors.ErrNotPending
		}
		logger.Error("Registration persistence failed", slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage("promote identity")
	}

	logger.Info("Account registered", slog.String("account_id", account.ID.String()))
	srv.sessions.publish(ctx, logger, service.EventAccountRegistered, session, provider, reg.ExternalID)

	return session, nil
}

// newAccount builds the local account from a validated completion form.
// Provider verification of the email counts as verification of the account.
func newAccount(reg *entity.AccountRegistration, passwordHash string, scope entity.Scope) *entity.LocalAccount {
	now := time.Now().UTC()

	return &entity.LocalAccount{
		ID:           uuid.New(),
		FirstName:    reg.FirstName,
		MiddleName:   reg.MiddleName,
		LastName:     reg.LastName,
		Email:        reg.Email,
		Phone:        reg.Phone,
		Country:      reg.Country,
		Province:     reg.Province,
		City:         reg.City,
		District:     reg.District,
		PasswordHash: passwordHash,
		Scope:        scope,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
