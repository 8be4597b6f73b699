//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/pkg/jwt"
	"cdk-distributor/internal/pkg/password"
	"cdk-distributor/internal/usecase/commands"
	"cdk-distributor/tests/common/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthCommands_Login(t *testing.T) {
	hash, err := password.HashPassword("hunter2")
	require.NoError(t, err)

	svc := jwt.NewService("secret", time.Hour)
	uc := commands.NewAuthCommands(config.AdminConfig{Username: "admin", PasswordHash: hash}, svc, storetest.DiscardLogger())
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		res, err := uc.Login(ctx, user.Credentials{Username: "admin", Password: "hunter2"})
		require.NoError(t, err)
		assert.True(t, res.Identity.CanAdminister())
		assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)

		claims, err := svc.ValidateToken(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.UserID)
		assert.Equal(t, "admin", claims.Role)
		assert.True(t, claims.Private)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Login(ctx, user.Credentials{Username: "admin", Password: "nope"})
		assert.True(t, errs.Is(err, commands.ErrInvalidCredentials))
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := uc.Login(ctx, user.Credentials{Username: "root", Password: "hunter2"})
		assert.True(t, errs.Is(err, commands.ErrInvalidCredentials))
	})

	t.Run("login disabled without hash", func(t *testing.T) {
		disabled := commands.NewAuthCommands(config.AdminConfig{Username: "admin"}, svc, storetest.DiscardLogger())
		_, err := disabled.Login(ctx, user.Credentials{Username: "admin", Password: "anything"})
		assert.True(t, errs.Is(err, commands.ErrInvalidCredentials))
	})
}
