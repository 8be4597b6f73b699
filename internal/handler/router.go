package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cdk-distributor/internal/handler/api"
	"cdk-distributor/internal/handler/middleware"
	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth    *api.AuthHandler
	Pool    *api.PoolHandler
	Command *api.CommandHandler
}

type Middlewares struct {
	Auth    *middleware.AuthMiddleware
	Limiter *middleware.ClaimLimiter
	Logger  *middleware.Logger
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, mw Middlewares) {
	setupMiddleware(engine, cfg, mw)
	setupRoutes(engine, h, mw)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, mw Middlewares) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(mw.Logger.LoggingMiddleware())
	engine.Use(metrics.Middleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, mw Middlewares) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
			})

			authRequired := auth.Group("")
			authRequired.Use(mw.Auth.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		pools := apiGroup.Group("/pools")
		pools.Use(mw.Auth.RequireAuth())
		{
			adminOnly := []gin.HandlerFunc{mw.Auth.RequireAdmin()}
			addRoutes(pools, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Pool.Create, Mw: adminOnly},
				{Method: http.MethodGet, Path: "", Handler: h.Pool.List, Mw: adminOnly},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Pool.Get, Mw: adminOnly},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Pool.Configure, Mw: adminOnly},
				{Method: http.MethodPost, Path: "/:id/codes", Handler: h.Pool.AppendCodes, Mw: adminOnly},
				{Method: http.MethodPost, Path: "/:id/claims", Handler: h.Pool.Claim, Mw: []gin.HandlerFunc{mw.Limiter.Middleware()}},
			})
		}

		cmds := apiGroup.Group("/commands")
		cmds.Use(mw.Auth.RequireAuth())
		{
			addRoutes(cmds, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Command.Execute, Mw: []gin.HandlerFunc{mw.Limiter.Middleware()}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
