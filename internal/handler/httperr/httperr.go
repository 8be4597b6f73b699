package httperr

import (
	"net/http"

	"cdk-distributor/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// FromDomain maps the error taxonomy to a status and a client-safe message.
// PersistenceFailed is reported as 503 here; claim handlers special-case it.
func FromDomain(err error) (int, string) {
	switch {
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "Pool not found"
	case errs.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, "Pool already exists"
	case errs.Is(err, errs.ErrExhausted):
		return http.StatusGone, "All codes have been claimed"
	case errs.Is(err, errs.ErrQuotaReached):
		return http.StatusForbidden, "Claim limit reached"
	case errs.Is(err, errs.ErrIngestionFailed):
		return http.StatusBadGateway, "Failed to fetch code list"
	case errs.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errs.Is(err, errs.ErrPersistenceFailed):
		return http.StatusServiceUnavailable, "Pool state could not be saved"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func AbortWithDomainError(c *gin.Context, err error) {
	status, msg := FromDomain(err)
	AbortWithError(c, status, err, msg, nil)
}
