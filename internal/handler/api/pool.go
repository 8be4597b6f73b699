package api

import (
	"errors"
	"io"
	"net/http"

	"cdk-distributor/internal/domain/pool"
	reqdto "cdk-distributor/internal/handler/dto/request"
	resdto "cdk-distributor/internal/handler/dto/response"
	"cdk-distributor/internal/handler/httperr"
	"cdk-distributor/internal/handler/middleware"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/usecase/commands"
	"cdk-distributor/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PoolHandler struct {
	pools  commands.PoolCommands
	claims commands.ClaimCommands
	q      queries.PoolQueries
}

func NewPoolHandler(pools commands.PoolCommands, claims commands.ClaimCommands, q queries.PoolQueries) *PoolHandler {
	return &PoolHandler{pools: pools, claims: claims, q: q}
}

func poolIDParam(c *gin.Context) (pool.ID, bool) {
	id, err := pool.NewID(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid pool id", nil)
		return "", false
	}
	return id, true
}

// @Summary Create pool
// @Description Create a pool from a line-delimited code list (admin, private channel)
// @Tags pools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreatePoolRequest true "Create pool request"
// @Success 201 {object} resdto.PoolResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /pools [post]
func (h *PoolHandler) Create(c *gin.Context) {
	var req reqdto.CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	params, err := req.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid pool id", nil)
		return
	}

	summary, err := h.pools.CreatePool(c.Request.Context(), params)
	if err != nil && summary == nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	if err != nil {
		// created in memory, the store rejected it
		c.JSON(http.StatusAccepted, resdto.FromSummary(summary))
		return
	}
	c.JSON(http.StatusCreated, resdto.FromSummary(summary))
}

// @Summary List pools
// @Description List every pool with its counters (admin, private channel)
// @Tags pools
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.PoolListResponse
// @Failure 403 {object} httperr.Response
// @Router /pools [get]
func (h *PoolHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	resp, err := resdto.FromPoolViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Pool details
// @Description Get counters and settings of one pool (admin, private channel)
// @Tags pools
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pool ID"
// @Success 200 {object} resdto.PoolResponse
// @Failure 404 {object} httperr.Response
// @Router /pools/{id} [get]
func (h *PoolHandler) Get(c *gin.Context) {
	id, ok := poolIDParam(c)
	if !ok {
		return
	}
	view, err := h.q.Describe(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	resp, err := resdto.FromPoolView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Append codes
// @Description Append (or replace) codes from a line-delimited code list (admin, private channel)
// @Tags pools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pool ID"
// @Param request body reqdto.AppendCodesRequest true "Append codes request"
// @Success 200 {object} resdto.AppendCodesResponse
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /pools/{id}/codes [post]
func (h *PoolHandler) AppendCodes(c *gin.Context) {
	id, ok := poolIDParam(c)
	if !ok {
		return
	}
	var req reqdto.AppendCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	total, err := h.pools.AppendCodes(c.Request.Context(), req.ToParams(id))
	persisted := err == nil
	if err != nil && !errs.Is(err, errs.ErrPersistenceFailed) {
		httperr.AbortWithDomainError(c, err)
		return
	}
	status := http.StatusOK
	if !persisted {
		status = http.StatusAccepted
	}
	c.JSON(status, resdto.AppendCodesResponse{ID: id.String(), Total: total, Persisted: persisted})
}

// @Summary Configure pool
// @Description Partially update pool settings (admin, private channel)
// @Tags pools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pool ID"
// @Param request body reqdto.ConfigurePoolRequest true "Configure request"
// @Success 200 {object} resdto.PoolResponse
// @Failure 404 {object} httperr.Response
// @Router /pools/{id} [patch]
func (h *PoolHandler) Configure(c *gin.Context) {
	id, ok := poolIDParam(c)
	if !ok {
		return
	}
	var req reqdto.ConfigurePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	err := h.pools.Configure(c.Request.Context(), commands.ConfigurePoolParams{ID: id, Patch: req.ToPatch()})
	if err != nil && !errs.Is(err, errs.ErrPersistenceFailed) {
		httperr.AbortWithDomainError(c, err)
		return
	}
	status := http.StatusOK
	if err != nil {
		status = http.StatusAccepted
	}

	view, qerr := h.q.Describe(c.Request.Context(), id)
	if qerr != nil {
		httperr.AbortWithDomainError(c, qerr)
		return
	}
	resp, cerr := resdto.FromPoolView(view)
	if cerr != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, cerr, "Internal server error", nil)
		return
	}
	c.JSON(status, resp)
}

// @Summary Claim codes
// @Description Claim codes from a pool for the authenticated user
// @Tags pools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pool ID"
// @Param request body reqdto.ClaimRequest false "Claim request"
// @Success 200 {object} resdto.ClaimResponse
// @Success 202 {object} resdto.ClaimResponse "granted but not yet persisted"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /pools/{id}/claims [post]
func (h *PoolHandler) Claim(c *gin.Context) {
	id, ok := poolIDParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, middleware.ErrNoIdentity, "Unauthorized", nil)
		return
	}
	// the body is optional, an empty one claims a single code
	var req reqdto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.claims.Claim(c.Request.Context(), commands.ClaimParams{
		PoolID: id,
		UserID: identity.ID,
		Count:  req.RequestedCount(),
	})
	if err != nil {
		if errs.Is(err, errs.ErrPersistenceFailed) && result != nil {
			c.JSON(http.StatusAccepted, resdto.FromClaimResult(result))
			return
		}
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromClaimResult(result))
}
