package main

import (
	"context"
	"log/slog"
	"os"

	"cdk-distributor/cmd/bootstrap"
	"cdk-distributor/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func init() {
	// never expose debug routes because of a missing env var
	gin.SetMode(gin.ReleaseMode)

	// a missing .env is fine outside local development
	_ = godotenv.Load()

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// @title           cdk-distributor
// @version         1.0
// @description     Distributes redemption codes (CDKs) from admin-managed pools.
// @description     Members claim codes; admins create, refill and configure pools.

// @BasePath  /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func startServer(lc fx.Lifecycle, server *bootstrap.HTTPServer, cfg config.Config, logger *slog.Logger) {
	// appended last, so it stops first and the registry closes on an idle server
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			gin.EnableJsonDecoderDisallowUnknownFields()
			if err := server.Start(ctx); err != nil {
				return err
			}
			logger.Info("starting server", "address", server.Addr(), "mode", gin.Mode(), "store", cfg.Store.Driver)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Stop(ctx)
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Provide(
			func() *gin.Engine {
				return gin.New()
			},
			bootstrap.NewHTTPServer,
		),
		fx.Invoke(
			startServer,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	// registry Close runs here and flushes a dirty state one last time
	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop application cleanly", "error", err)
	}

	slog.Info("application stopped")
}
