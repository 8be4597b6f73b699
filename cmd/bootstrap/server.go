package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// HTTPServer serves the gin engine. Stop drains in-flight requests.
type HTTPServer struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger

	ln net.Listener
}

func NewHTTPServer(cfg config.Config, engine *gin.Engine, logger *slog.Logger) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		logger:          logger,
	}
}

func (s *HTTPServer) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errs.Wrapf(err, "listen on %s", s.srv.Addr)
	}
	s.ln = ln

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped with error", "error", err)
		}
	}()
	return nil
}

// Addr is the bound address; useful when the port is 0.
func (s *HTTPServer) Addr() string {
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return errs.Wrap(err, "shutdown http server")
	}
	return nil
}
