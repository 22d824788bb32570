package impl

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	deliverycontext "authflow/internal/delivery/context"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/domain/repository"
	"authflow/internal/domain/service"
	"authflow/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	tokenService service.TokenService
	accountRepo  repository.AccountRepository
	loginRepo    repository.LoginTokenRepository
	logger       *slog.Logger
	now          func() time.Time
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	TokenService service.TokenService
	AccountRepo  repository.AccountRepository
	LoginRepo    repository.LoginTokenRepository
	Logger       *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		tokenService: params.TokenService,
		accountRepo:  params.AccountRepo,
		loginRepo:    params.LoginRepo,
		logger:       params.Logger,
		now:          time.Now,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// VerifyAccess accepts an access token only together with the challenge it was issued with,
// and only while its account exists and still holds a live session.
func (srv *sessionService) VerifyAccess(ctx context.Context, input *usecase.VerifyInput) (*service.Claims, error) {
	if input.AccessToken == "" {
		return nil, domainerrors.ErrUnauthorized
	}

	claims, err := srv.tokenService.ValidateToken(input.AccessToken, service.TokenTypeAccess)
	if err != nil {
		srv.log(ctx).Debug("Access token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrTokenInvalid
	}

	if input.Challenge == "" || subtle.ConstantTimeCompare([]byte(claims.Challenge), []byte(input.Challenge)) != 1 {
		srv.log(ctx).Warn("Challenge mismatch", slog.String("account_id", claims.AccountID.String()))

		return nil, domainerrors.ErrChallengeMismatch
	}

	account, err := srv.accountRepo.FindByID(ctx, claims.AccountID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Warn("Token for unknown account", slog.String("account_id", claims.AccountID.String()))

		return nil, domainerrors.ErrTokenInvalid
	}
	if err != nil {
		srv.log(ctx).Error("Account lookup failed", slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WrapMessage("find account")
	}

	loginToken, err := srv.loginRepo.FindByAccountID(ctx, claims.AccountID)
	if errors.Is(err, repository.ErrLoginTokenNotFound) {
		srv.log(ctx).Info("Token for signed out account", slog.String("account_id", claims.AccountID.String()))

		return nil, domainerrors.ErrTokenInvalid
	}
	if err != nil {
		srv.log(ctx).Error("Login token lookup failed", slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WrapMessage("find login token")
	}
	if loginToken.IsExpired(srv.now()) {
		return nil, domainerrors.ErrTokenInvalid
	}

	// The account row is authoritative for the scope.
	claims.Scope = account.Scope

	return claims, nil
}

// SignOut removes the account's login token row, which ends every access token of the account.
func (srv *sessionService) SignOut(ctx context.Context, accountID uuid.UUID) error {
	err := srv.loginRepo.DeleteByAccountID(ctx, accountID)
	if err != nil && !errors.Is(err, repository.ErrLoginTokenNotFound) {
		srv.log(ctx).Error("Sign out failed", slog.String("account_id", accountID.String()), slog.Any("error", err))

		return domainerrors.ErrInternalError.WrapMessage("delete login token")
	}

	srv.log(ctx).Info("Account signed out", slog.String("account_id", accountID.String()))

	return nil
}
