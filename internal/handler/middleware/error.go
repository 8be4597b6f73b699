package middleware

import (
	"log/slog"
	"net/http"

	"cdk-distributor/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error pushed onto the context when the
// handler did not write a response itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		if resp, ok := last.Meta.(httperr.Response); ok && last.IsType(gin.ErrorTypePublic) {
			c.JSON(resp.Status, resp)
			return
		}

		// private errors carry a domain cause, never a prepared body
		status, msg := httperr.FromDomain(last.Err)
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "error", last.Err, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
		}
		resp := httperr.Response{Status: status}
		resp.Error.Message = msg
		c.JSON(status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("recovered from panic", "panic", rec, "path", c.Request.URL.Path, "request_id", GetRequestID(c))

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
