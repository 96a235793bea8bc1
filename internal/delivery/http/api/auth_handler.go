package api

import (
	"net/http"

	"cv-generator-backend/internal/delivery/http/middleware"
	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler registers sign-in sync behind token-only auth and the
// profile route behind full session auth.
func NewAuthHandler(tokenOnly, protected *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	tokenOnly.POST("/auth/sync", handler.Sync)
	protected.GET("/auth/me", handler.Me)
}

// Sync godoc
// @Summary      Sync signed-in user
// @Description  Creates or re-links the user row for a verified session token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/sync [post]
// @Security     BearerAuth
func (h *AuthHandler) Sync(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		c.Error(apperror.Unauthorized("Authentication required"))
		return
	}

	user, err := h.authUC.SyncUser(c.Request.Context(), *identity)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User synced", user)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), session(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", user)
}
