package components

import (
	"context"
	"log/slog"

	"cdk-distributor/internal/infra/uow"
	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/usecase/shared"

	"go.uber.org/fx"
)

var RegistryModule = fx.Module("registry",
	fx.Provide(
		NewRegistry,
		func(r *uow.Registry) shared.Registry { return r },
		NewDirtyFlusher,
	),
	fx.Invoke(func(*uow.DirtyFlusher) {}),
)

func NewRegistry(lc fx.Lifecycle, cfg config.Config, poolStore shared.PoolStore, logger *slog.Logger) *uow.Registry {
	registry := uow.NewRegistry(poolStore, uow.FlushPolicy{
		Timeout: cfg.Store.FlushTimeout,
		Retries: cfg.Store.FlushRetries,
		Backoff: cfg.Store.FlushBackoff,
	}, logger)

	lc.Append(fx.Hook{
		OnStart: registry.Open,
		OnStop:  registry.Close,
	})

	return registry
}

func NewDirtyFlusher(lc fx.Lifecycle, cfg config.Config, registry *uow.Registry, logger *slog.Logger) (*uow.DirtyFlusher, error) {
	flusher, err := uow.NewDirtyFlusher(registry, cfg.Store.DirtyRetrySchedule, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			flusher.Start()
			return nil
		},
		OnStop: flusher.Stop,
	})

	return flusher, nil
}
