package api

import (
	"net/http"

	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateUC domain.TemplateUsecase
}

func NewTemplateHandler(r *gin.RouterGroup, templateUC domain.TemplateUsecase, generationLimit gin.HandlerFunc) {
	handler := &TemplateHandler{templateUC: templateUC}

	templates := r.Group("/templates")
	{
		templates.GET("", handler.List)
		templates.POST("", handler.Create)
		templates.POST("/extract", generationLimit, handler.Extract)
		templates.PATCH("/:id", handler.Edit)
		templates.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List templates
// @Description  Built-in base template first, then shared and company templates
// @Tags         templates
// @Produce      json
// @Param        company_id  query     string  false  "Company ID (SUPERADMIN)"
// @Success      200         {object}  response.Response{data=[]domain.Template}
// @Failure      403         {object}  response.Response
// @Router       /templates [get]
// @Security     BearerAuth
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templateUC.ListTemplates(c.Request.Context(), session(c), c.Query("company_id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Templates retrieved", templates)
}

// Create godoc
// @Summary      Create template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        body  body      domain.TemplateRequest  true  "Template"
// @Success      201   {object}  response.Response{data=domain.Template}
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /templates [post]
// @Security     BearerAuth
func (h *TemplateHandler) Create(c *gin.Context) {
	var req domain.TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.templateUC.CreateTemplate(c.Request.Context(), session(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Template created", tpl)
}

// Extract godoc
// @Summary      Create template from an example CV
// @Description  Turns text extracted from an uploaded PDF into a reusable template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ExtractTemplateRequest  true  "Example CV text"
// @Success      201   {object}  response.Response{data=domain.Template}
// @Failure      409   {object}  response.Response
// @Failure      502   {object}  response.Response
// @Router       /templates/extract [post]
// @Security     BearerAuth
func (h *TemplateHandler) Extract(c *gin.Context) {
	var req domain.ExtractTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.templateUC.ExtractTemplate(c.Request.Context(), session(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Template created", tpl)
}

// Edit godoc
// @Summary      Edit template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Template ID"
// @Param        body  body      domain.TemplateRequest  true  "Template"
// @Success      200   {object}  response.Response{data=domain.Template}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /templates/{id} [patch]
// @Security     BearerAuth
func (h *TemplateHandler) Edit(c *gin.Context) {
	var req domain.TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.templateUC.EditTemplate(c.Request.Context(), session(c), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Template updated", tpl)
}

// Delete godoc
// @Summary      Delete template
// @Tags         templates
// @Produce      json
// @Param        id   path      string  true  "Template ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /templates/{id} [delete]
// @Security     BearerAuth
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templateUC.DeleteTemplate(c.Request.Context(), session(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Template deleted", nil)
}
