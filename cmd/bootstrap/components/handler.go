package components

import (
	"context"

	"cdk-distributor/internal/handler"
	"cdk-distributor/internal/handler/api"
	"cdk-distributor/internal/handler/command"
	"cdk-distributor/internal/handler/middleware"
	"cdk-distributor/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewPoolHandler,
		api.NewCommandHandler,
		command.NewDispatcher,
		middleware.NewAuthMiddleware,
		NewClaimLimiter,
		func(auth *api.AuthHandler, pool *api.PoolHandler, cmd *api.CommandHandler) handler.Handlers {
			return handler.Handlers{Auth: auth, Pool: pool, Command: cmd}
		},
		func(auth *middleware.AuthMiddleware, limiter *middleware.ClaimLimiter, logger *middleware.Logger) handler.Middlewares {
			return handler.Middlewares{Auth: auth, Limiter: limiter, Logger: logger}
		},
	),
	fx.Invoke(handler.NewRouter),
)

func NewClaimLimiter(lc fx.Lifecycle, cfg config.Config) *middleware.ClaimLimiter {
	limiter := middleware.NewClaimLimiter(cfg.RateLimit)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			limiter.StartJanitor(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})

	return limiter
}
