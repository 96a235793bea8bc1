package api

import (
	"net/http"

	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CompanyHandler struct {
	companyUC domain.CompanyUsecase
}

func NewCompanyHandler(r *gin.RouterGroup, companyUC domain.CompanyUsecase) {
	handler := &CompanyHandler{companyUC: companyUC}

	companies := r.Group("/companies")
	{
		companies.GET("", handler.List)
		companies.POST("", handler.Create)
		companies.PATCH("/:id", handler.Edit)
		companies.DELETE("/:id", handler.Delete)
		companies.GET("/:id/usage", handler.ExportUsage)
	}
}

// List godoc
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Company}
// @Failure      403  {object}  response.Response
// @Router       /companies [get]
// @Security     BearerAuth
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyUC.ListCompanies(c.Request.Context(), session(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Companies retrieved", companies)
}

// Create godoc
// @Summary      Create company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CompanyRequest  true  "Company"
// @Success      201   {object}  response.Response{data=domain.Company}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /companies [post]
// @Security     BearerAuth
func (h *CompanyHandler) Create(c *gin.Context) {
	var req domain.CompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.companyUC.CreateCompany(c.Request.Context(), session(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Company created", company)
}

// Edit godoc
// @Summary      Edit company limits
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Company ID"
// @Param        body  body      domain.CompanyRequest  true  "Company"
// @Success      200   {object}  response.Response{data=domain.Company}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /companies/{id} [patch]
// @Security     BearerAuth
func (h *CompanyHandler) Edit(c *gin.Context) {
	id, ok := uuidParam(c, "id", "company")
	if !ok {
		return
	}
	var req domain.CompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.companyUC.EditCompany(c.Request.Context(), session(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company updated", company)
}

// Delete godoc
// @Summary      Delete company
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /companies/{id} [delete]
// @Security     BearerAuth
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "company")
	if !ok {
		return
	}
	if err := h.companyUC.DeleteCompany(c.Request.Context(), session(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company deleted", nil)
}

// ExportUsage godoc
// @Summary      Download usage report
// @Description  Per-user generation usage of a company as an XLSX workbook
// @Tags         companies
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path      string  true  "Company ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  response.Response
// @Router       /companies/{id}/usage [get]
// @Security     BearerAuth
func (h *CompanyHandler) ExportUsage(c *gin.Context) {
	id, ok := uuidParam(c, "id", "company")
	if !ok {
		return
	}
	data, filename, err := h.companyUC.ExportUsage(c.Request.Context(), session(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.File(c, filename, xlsxContentType, data)
}
