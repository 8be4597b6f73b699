//go:build e2e

package helper

import (
	"net/http"
	"testing"
	"time"

	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/handler/dto/request"
	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/pkg/cookie"
	"cdk-distributor/internal/pkg/jwt"
	"cdk-distributor/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TokenHelper mints tokens the way the chat gateway does, sharing JWT_SECRET,
// and logs the admin console in through the API.
type TokenHelper struct {
	cfg config.JWTConfig
}

func NewTokenHelper(cfg config.JWTConfig) *TokenHelper {
	return &TokenHelper{cfg: cfg}
}

func (h *TokenHelper) service(t *testing.T, d time.Duration) *jwt.Service {
	t.Helper()
	if d == 0 {
		var err error
		d, err = time.ParseDuration(h.cfg.Duration)
		require.NoError(t, err)
	}
	return jwt.NewService(h.cfg.Secret, d)
}

func (h *TokenHelper) Token(t *testing.T, identity user.Identity) string {
	t.Helper()
	token, err := h.service(t, 0).GenerateToken(identity)
	require.NoError(t, err)
	return token
}

// MemberToken is a group chat member.
func (h *TokenHelper) MemberToken(t *testing.T, id string) string {
	t.Helper()
	return h.Token(t, user.NewIdentity(user.ID(id), user.RoleMember, false))
}

// AdminGroupToken is an admin speaking in a group chat, which cannot administer.
func (h *TokenHelper) AdminGroupToken(t *testing.T, id string) string {
	t.Helper()
	return h.Token(t, user.NewIdentity(user.ID(id), user.RoleAdmin, false))
}

func (h *TokenHelper) ExpiredToken(t *testing.T, id string) string {
	t.Helper()
	token, err := h.service(t, time.Millisecond).GenerateToken(user.NewIdentity(user.ID(id), user.RoleMember, false))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}

// LoginAdmin logs in through /api/auth/login and returns the cookie token.
func (h *TokenHelper) LoginAdmin(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Username: username, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	c := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
	require.NotNil(t, c, "access token cookie not set")
	require.NotEmpty(t, c.Value)
	return c.Value
}
