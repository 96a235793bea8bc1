package middleware

import (
	"errors"
	"net/http"

	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				// Never expose internal error details to clients.
				logger.Log.Error("Request failed",
					"path", c.FullPath(),
					"kind", string(appErr.Kind),
					"error", err,
					"request_id", c.GetString(string(domain.KeyRequestID)),
				)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		logger.Log.Error("Internal Server Error", "path", c.FullPath(), "error", err, "request_id", c.GetString(string(domain.KeyRequestID)))
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
