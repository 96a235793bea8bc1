package api

import (
	"net/http"

	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC domain.UserUsecase
}

func NewUserHandler(r *gin.RouterGroup, userUC domain.UserUsecase) {
	handler := &UserHandler{userUC: userUC}

	users := r.Group("/users")
	{
		users.GET("", handler.List)
		users.POST("", handler.Create)
		users.PATCH("/:id", handler.Edit)
		users.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List users
// @Description  ADMIN sees their company; SUPERADMIN may filter by company or see everyone
// @Tags         users
// @Produce      json
// @Param        company_id  query     string  false  "Company ID"
// @Success      200         {object}  response.Response{data=[]domain.User}
// @Failure      403         {object}  response.Response
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userUC.ListUsers(c.Request.Context(), session(c), c.Query("company_id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users retrieved", users)
}

// Create godoc
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateUserRequest  true  "User"
// @Success      201   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /users [post]
// @Security     BearerAuth
func (h *UserHandler) Create(c *gin.Context) {
	var req domain.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userUC.CreateUser(c.Request.Context(), session(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "User created", user)
}

// Edit godoc
// @Summary      Edit user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "User ID"
// @Param        body  body      domain.EditUserRequest  true  "Changes"
// @Success      200   {object}  response.Response{data=domain.User}
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /users/{id} [patch]
// @Security     BearerAuth
func (h *UserHandler) Edit(c *gin.Context) {
	var req domain.EditUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userUC.EditUser(c.Request.Context(), session(c), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User updated", user)
}

// Delete godoc
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
// @Security     BearerAuth
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userUC.DeleteUser(c.Request.Context(), session(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted", nil)
}
