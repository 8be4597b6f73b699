//go:build unit || e2e

package builder

import (
	"cdk-distributor/internal/domain/user"
	reqdto "cdk-distributor/internal/handler/dto/request"
)

type AuthBuilder struct {
	Username string
	Password string
}

func NewAuthBuilder() *AuthBuilder {
	return &AuthBuilder{
		Username: "admin",
		Password: "password123",
	}
}

func (a *AuthBuilder) BuildDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Username: a.Username,
		Password: a.Password,
	}
}

func (a *AuthBuilder) BuildDomain() user.Credentials {
	return user.Credentials{
		Username: a.Username,
		Password: a.Password,
	}
}
