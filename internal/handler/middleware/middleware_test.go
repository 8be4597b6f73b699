//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/handler/middleware"
	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/pkg/cookie"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/tests/common/httptest"
	usecasemock "cdk-distributor/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func identityEcho(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user_id": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id.ID.String(), "admin": id.CanAdminister()})
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	validator := usecasemock.NewMockTokenValidator(ctrl)
	auth := middleware.NewAuthMiddleware(validator)

	router := gin.New()
	router.GET("/me", auth.RequireAuth(), identityEcho)
	router.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), identityEcho)

	t.Run("bearer token", func(t *testing.T) {
		validator.EXPECT().ValidateToken("good").Return(user.NewIdentity("u1", user.RoleMember, false), nil)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "good")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":"u1","admin":false}`, rec.Body.String())
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		validator.EXPECT().ValidateToken("from-cookie").Return(user.NewIdentity("admin", user.RoleAdmin, true), nil)

		cookies := []*http.Cookie{{Name: cookie.AccessTokenCookieName, Value: "from-cookie"}}
		rec := httptest.PerformRequestWithCookies(t, router, http.MethodGet, "/me", nil, cookies, "from-header")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"user_id":"admin"`)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("invalid token", func(t *testing.T) {
		validator.EXPECT().ValidateToken("bad").Return(user.Identity{}, errors.New("invalid token"))

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "bad")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("admin in private channel passes the admin gate", func(t *testing.T) {
		validator.EXPECT().ValidateToken("admin").Return(user.NewIdentity("admin", user.RoleAdmin, true), nil)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, "admin")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin in group channel is refused", func(t *testing.T) {
		validator.EXPECT().ValidateToken("admin-group").Return(user.NewIdentity("admin", user.RoleAdmin, false), nil)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, "admin-group")
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Admin access in a private channel required")
	})

	t.Run("member is refused", func(t *testing.T) {
		validator.EXPECT().ValidateToken("member").Return(user.NewIdentity("u1", user.RoleMember, true), nil)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, "member")
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "")
	})
}

func TestRequireAdminWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := middleware.NewAuthMiddleware(nil)

	router := gin.New()
	router.GET("/admin", auth.RequireAdmin(), identityEcho)

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}

func TestClaimLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(l *middleware.ClaimLimiter, id string) *gin.Engine {
		router := gin.New()
		router.POST("/claim", func(c *gin.Context) {
			if id != "" {
				middleware.SetIdentity(c, user.NewIdentity(user.ID(id), user.RoleMember, false))
			}
			c.Next()
		}, l.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return router
	}

	t.Run("burst then reject per user", func(t *testing.T) {
		l := middleware.NewClaimLimiter(config.RateLimitConfig{Enabled: true, ClaimRPS: 0.001, ClaimBurst: 2, IdleTTL: time.Minute})
		u1 := newRouter(l, "u1")
		u2 := newRouter(l, "u2")

		assert.Equal(t, http.StatusNoContent, httptest.PerformRequest(t, u1, http.MethodPost, "/claim", nil, "").Code)
		assert.Equal(t, http.StatusNoContent, httptest.PerformRequest(t, u1, http.MethodPost, "/claim", nil, "").Code)

		rec := httptest.PerformRequest(t, u1, http.MethodPost, "/claim", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusTooManyRequests, "Too many claim requests")
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		httptest.AssertHeaders(t, rec, map[string]string{
			"X-RateLimit-Burst": "2",
			"X-RateLimit-Limit": "0.001",
		})

		// separate bucket
		assert.Equal(t, http.StatusNoContent, httptest.PerformRequest(t, u2, http.MethodPost, "/claim", nil, "").Code)
		assert.Equal(t, 2, l.Len())
	})

	t.Run("disabled limiter passes everything", func(t *testing.T) {
		l := middleware.NewClaimLimiter(config.RateLimitConfig{Enabled: false, ClaimRPS: 0.001, ClaimBurst: 1})
		router := newRouter(l, "u1")
		for range 5 {
			assert.Equal(t, http.StatusNoContent, httptest.PerformRequest(t, router, http.MethodPost, "/claim", nil, "").Code)
		}
		assert.Equal(t, 0, l.Len())
	})

	t.Run("cleanup evicts idle buckets", func(t *testing.T) {
		l := middleware.NewClaimLimiter(config.RateLimitConfig{Enabled: true, ClaimRPS: 1, ClaimBurst: 1, IdleTTL: time.Nanosecond})
		assert.True(t, l.Allow("u1"))
		require.Equal(t, 1, l.Len())

		time.Sleep(time.Millisecond)
		l.Cleanup()
		assert.Equal(t, 0, l.Len())
	})
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := middleware.NewLogger(config.NewTestConfig().Log)

	router := gin.New()
	router.Use(logger.LoggingMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	t.Run("generated when absent", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/ping", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, rec.Body.String(), 36)
		assert.Equal(t, rec.Body.String(), rec.Header().Get("X-Request-ID"))
	})

	t.Run("propagated when present", func(t *testing.T) {
		req := nethttptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "upstream-id")
		rec := nethttptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "upstream-id", rec.Body.String())
	})
}

func TestCustomRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CustomRecovery(), middleware.ErrorHandler())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/panic", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.GET("/private", func(c *gin.Context) {
		_ = c.Error(errs.Wrap(errs.ErrExhausted, "claim"))
	})
	router.GET("/unknown", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("private domain error is mapped", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/private", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusGone, "All codes have been claimed")
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/unknown", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})

	t.Run("no error leaves the response alone", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/ok", nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
