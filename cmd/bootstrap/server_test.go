//go:build unit

package bootstrap_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"cdk-distributor/cmd/bootstrap"
	"cdk-distributor/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func newTestServer(t *testing.T, handler gin.HandlerFunc) *bootstrap.HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/slow", handler)

	cfg := config.NewTestConfig()
	cfg.Server.Port = "0"
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return bootstrap.NewHTTPServer(cfg, engine, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHTTPServer_StopDrainsBeforeLaterHooks(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	server := newTestServer(t, func(c *gin.Context) {
		close(started)
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
		c.Status(http.StatusNoContent)
	})

	// hooks stop in reverse order: the server hook is appended after the
	// registry one, as in main
	var handlerDoneAtClose atomic.Bool
	lc := fxtest.NewLifecycle(t)
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		handlerDoneAtClose.Store(finished.Load())
		return nil
	}})
	lc.Append(fx.Hook{OnStart: server.Start, OnStop: server.Stop})
	lc.RequireStart()

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + server.Addr() + "/slow")
		if err != nil {
			status <- -1
			return
		}
		_ = resp.Body.Close()
		status <- resp.StatusCode
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("request never reached the handler")
	}
	lc.RequireStop()

	assert.Equal(t, http.StatusNoContent, <-status)
	assert.True(t, handlerDoneAtClose.Load(), "in-flight request must finish before later hooks stop")

	_, err := http.Get("http://" + server.Addr() + "/slow")
	require.Error(t, err)
}

func TestHTTPServer_StartFailsOnBusyPort(t *testing.T) {
	first := newTestServer(t, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	require.NoError(t, first.Start(context.Background()))
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	cfg := config.NewTestConfig()
	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	cfg.Server.Port = port
	second := bootstrap.NewHTTPServer(cfg, gin.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Error(t, second.Start(context.Background()))
}
