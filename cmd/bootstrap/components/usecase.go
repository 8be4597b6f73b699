package components

import (
	"log/slog"

	"cdk-distributor/internal/infra/ingest"
	"cdk-distributor/internal/infra/stats"
	"cdk-distributor/internal/pkg/clock"
	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/pkg/jwt"
	"cdk-distributor/internal/usecase"
	"cdk-distributor/internal/usecase/commands"
	"cdk-distributor/internal/usecase/queries"
	"cdk-distributor/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewClaimRecorder,
	fx.Annotate(
		func(cfg config.Config, logger *slog.Logger) *ingest.HTTPSource {
			return ingest.NewHTTPSource(cfg.Ingest, logger)
		},
		fx.As(new(commands.CodeSource)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(cfg config.Config, svc *jwt.Service, logger *slog.Logger) commands.AuthCommands {
			return commands.NewAuthCommands(cfg.Admin, svc, logger)
		},
		commands.NewClaimCommands,
		func(registry shared.Registry, source commands.CodeSource, logger *slog.Logger) commands.PoolCommands {
			return commands.NewPoolCommands(registry, source, logger)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewPoolQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// NewClaimRecorder always exports Prometheus counters and adds the Redis
// counters when a client is configured.
func NewClaimRecorder(rdb *redis.Client, cfg config.Config, logger *slog.Logger) commands.ClaimRecorder {
	recorders := []stats.Recorder{stats.PrometheusRecorder{}}
	if rdb != nil {
		recorders = append(recorders, stats.NewRedisClaimStats(
			rdb,
			stats.WithStatsPrefix(cfg.Redis.Prefix),
			stats.WithStatsTTL(cfg.Redis.TTL),
			stats.WithStatsBucket(cfg.Redis.Bucket),
		))
	}
	return stats.NewFanout(logger, recorders...)
}
