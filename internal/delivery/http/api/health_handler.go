package api

import (
	"context"
	"net/http"

	"cv-generator-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports the state of each dependency.
type HealthChecker interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status, ok := checker.Check(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	}
}
