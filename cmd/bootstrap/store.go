package bootstrap

import (
	"context"
	"log/slog"

	"cdk-distributor/internal/infra/db"
	"cdk-distributor/internal/infra/store"
	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/usecase/shared"

	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewPoolStore,
	),
)

// NewPoolStore picks the snapshot backend from STORE_DRIVER.
func NewPoolStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.PoolStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("memory store selected, pools will not survive a restart")
		return store.NewMemoryStore(logger), nil

	case config.StoreDriverPostgres:
		pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				if cleanup != nil {
					cleanup()
				}
				return nil
			},
		})

		s := store.NewPostgresStore(pool, logger)
		if err := s.EnsureSchema(context.Background()); err != nil {
			cleanup()
			return nil, err
		}
		return s, nil

	case config.StoreDriverFile:
		s := store.NewFileStore(cfg.Store.FilePath, logger)
		logger.Info("file store selected", "path", s.Path())
		return s, nil
	}

	return nil, errs.Newf("unknown store driver %q", cfg.Store.Driver)
}
