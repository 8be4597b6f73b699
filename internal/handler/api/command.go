package api

import (
	"net/http"

	"cdk-distributor/internal/handler/command"
	reqdto "cdk-distributor/internal/handler/dto/request"
	resdto "cdk-distributor/internal/handler/dto/response"
	"cdk-distributor/internal/handler/httperr"
	"cdk-distributor/internal/handler/middleware"

	"github.com/gin-gonic/gin"
)

type CommandHandler struct {
	dispatcher *command.Dispatcher
}

func NewCommandHandler(dispatcher *command.Dispatcher) *CommandHandler {
	return &CommandHandler{dispatcher: dispatcher}
}

// @Summary Run chat command
// @Description Run a /cdk or /claim chat command and return the reply messages
// @Tags commands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CommandRequest true "Command text"
// @Success 200 {object} resdto.CommandResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /commands [post]
func (h *CommandHandler) Execute(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, middleware.ErrNoIdentity, "Unauthorized", nil)
		return
	}
	var req reqdto.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	messages := h.dispatcher.Execute(c.Request.Context(), identity, req.Text)
	c.JSON(http.StatusOK, resdto.CommandResponse{Messages: messages})
}
