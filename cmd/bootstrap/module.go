package bootstrap

import (
	"cdk-distributor/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StoreModule,
	RedisModule,
	JWTModule,
	components.RegistryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
