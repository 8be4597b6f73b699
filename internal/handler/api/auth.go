package api

import (
	"net/http"
	"time"

	reqdto "cdk-distributor/internal/handler/dto/request"
	resdto "cdk-distributor/internal/handler/dto/response"
	"cdk-distributor/internal/handler/httperr"
	"cdk-distributor/internal/handler/middleware"
	"cdk-distributor/internal/pkg/cookie"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands commands.AuthCommands
}

func NewAuthHandler(authCommands commands.AuthCommands) *AuthHandler {
	return &AuthHandler{
		authCommands: authCommands,
	}
}

func secureCookies() bool {
	return gin.Mode() == gin.ReleaseMode
}

// @Summary Admin login
// @Description Login to the admin console with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	credentials, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request data", nil)
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), credentials)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInvalidCredentials):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid username or password", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	cookie.SetAccessToken(c, result.AccessToken, time.Until(result.ExpiresAt), secureCookies())
	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        resdto.FromIdentity(result.Identity),
	})
}

// @Summary Logout
// @Description Clear the access token cookie
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// tokens are stateless; dropping the cookie is all there is to do
	cookie.ClearAccessToken(c, secureCookies())
	c.Status(http.StatusNoContent)
}

// @Summary Get current identity
// @Description Get the identity carried by the access token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.IdentityResponse
// @Failure 401 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, middleware.ErrNoIdentity, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromIdentity(identity))
}
