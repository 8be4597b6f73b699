package commands

//go:generate mockgen -source=auth.go -destination=../../../tests/mock/commands/auth.go -package=commandsmock

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/pkg/jwt"
	"cdk-distributor/internal/pkg/password"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrTokenGeneration    = errs.New("token generation failed")
)

type LoginResult struct {
	Identity    user.Identity
	AccessToken string
	ExpiresAt   time.Time
}

type AuthCommands interface {
	Login(ctx context.Context, credentials user.Credentials) (*LoginResult, error)
}

type authCommandsImpl struct {
	admin      config.AdminConfig
	jwtService *jwt.Service
	logger     *slog.Logger
}

func NewAuthCommands(admin config.AdminConfig, jwtService *jwt.Service, logger *slog.Logger) AuthCommands {
	return &authCommandsImpl{
		admin:      admin,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates the admin console. The resulting identity counts as a
// private channel, the only place administration is allowed.
func (a *authCommandsImpl) Login(_ context.Context, credentials user.Credentials) (*LoginResult, error) {
	nameOK := subtle.ConstantTimeCompare([]byte(credentials.Username), []byte(a.admin.Username)) == 1
	pwErr := password.ComparePassword(a.admin.PasswordHash, credentials.Password)
	if !nameOK || pwErr != nil {
		a.logger.Warn("admin login rejected", slog.String("username", credentials.Username))
		return nil, ErrInvalidCredentials
	}

	identity := user.NewIdentity(user.ID(a.admin.Username), user.RoleAdmin, true)
	token, err := a.jwtService.GenerateToken(identity)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &LoginResult{
		Identity:    identity,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(a.jwtService.TokenDuration()),
	}, nil
}
