package response

import (
	"time"

	"cdk-distributor/internal/domain/user"
)

type IdentityResponse struct {
	UserID        string `json:"user_id"`
	Role          string `json:"role"`
	Private       bool   `json:"private"`
	CanAdminister bool   `json:"can_administer"`
}

type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	User        IdentityResponse `json:"user"`
}

func FromIdentity(id user.Identity) IdentityResponse {
	return IdentityResponse{
		UserID:        id.ID.String(),
		Role:          id.Role.String(),
		Private:       id.Private,
		CanAdminister: id.CanAdminister(),
	}
}
