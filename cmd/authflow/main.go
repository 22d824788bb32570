package main

import (
	"context"
	"log/slog"
	"os"

	"authflow/config"
	"authflow/internal/delivery"
	"authflow/internal/delivery/http"
	"authflow/internal/delivery/http/middleware"
	"authflow/internal/delivery/http/router/handler"
	"authflow/internal/domain/service"
	"authflow/internal/infra/auth"
	logs "authflow/internal/infra/log"
	"authflow/internal/infra/persistence/postgres"
	"authflow/internal/infra/provider"
	"authflow/internal/infra/pubsub"
	"authflow/internal/infra/validation"
	"authflow/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewIdentityRepository,
			postgres.NewAccountRepository,
			postgres.NewLoginTokenRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newStateStore,
			provider.NewRegistry,
			fx.Annotate(
				validation.New,
				fx.As(fx.Self()),
				fx.As(new(service.ProfileValidator)),
			),
			pubsub.NewEventPublisher,
		),
	)
}

// newStateStore ties the state cache's expiry loop to the app lifecycle.
func newStateStore(lc fx.Lifecycle, cfg *config.Config) service.StateStore {
	store := auth.NewStateStore(cfg)
	lc.Append(fx.StopHook(store.Stop))

	return store
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewOAuthService,
			impl.NewRegistrationService,
			impl.NewSessionService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
