package api

import (
	"net/http"

	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// msgLimitReached is shown when the caller has no generations left.
const msgLimitReached = "You have reached your document generation limit"

type DocumentHandler struct {
	documentUC domain.DocumentUsecase
}

func NewDocumentHandler(r *gin.RouterGroup, documentUC domain.DocumentUsecase, generationLimit gin.HandlerFunc) {
	handler := &DocumentHandler{documentUC: documentUC}

	docs := r.Group("/documents")
	{
		docs.GET("", handler.List)
		docs.POST("/generate", generationLimit, handler.Generate)
		docs.GET("/:id", handler.Get)
		docs.DELETE("/:id", handler.Delete)
		docs.GET("/:id/export", handler.Export)
	}
}

// Generate godoc
// @Summary      Generate a CV
// @Description  Rewrites pasted CV text into the chosen template. When the allowance is used up nothing is generated and data.limit_reached is true.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body      domain.GenerateRequest  true  "Candidate data and CV text"
// @Success      201   {object}  response.Response{data=domain.GenerateResult}
// @Success      200   {object}  response.Response{data=domain.GenerateResult}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      502   {object}  response.Response
// @Router       /documents/generate [post]
// @Security     BearerAuth
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req domain.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.documentUC.Generate(c.Request.Context(), session(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	writeGenerateResult(c, result, "Document generated")
}

// writeGenerateResult reports an exhausted allowance as a normal outcome.
func writeGenerateResult(c *gin.Context, result *domain.GenerateResult, message string) {
	if result.LimitReached {
		response.Success(c, http.StatusOK, msgLimitReached, result)
		return
	}
	response.Success(c, http.StatusCreated, message, result)
}

// List godoc
// @Summary      List my documents
// @Tags         documents
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.DocInfo}
// @Router       /documents [get]
// @Security     BearerAuth
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentUC.ListDocuments(c.Request.Context(), session(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Documents retrieved", docs)
}

// Get godoc
// @Summary      Get document
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=domain.GeneratedDoc}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /documents/{id} [get]
// @Security     BearerAuth
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "document")
	if !ok {
		return
	}
	doc, err := h.documentUC.GetDocument(c.Request.Context(), session(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Document retrieved", doc)
}

// Delete godoc
// @Summary      Delete document
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /documents/{id} [delete]
// @Security     BearerAuth
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "document")
	if !ok {
		return
	}
	if err := h.documentUC.DeleteDocument(c.Request.Context(), session(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Document deleted", nil)
}

// Export godoc
// @Summary      Download document
// @Tags         documents
// @Produce      application/pdf
// @Produce      text/html
// @Param        id      path      string  true   "Document ID"
// @Param        format  query     string  false  "pdf (default) or html"
// @Success      200     {file}    binary
// @Failure      400     {object}  response.Response
// @Router       /documents/{id}/export [get]
// @Security     BearerAuth
func (h *DocumentHandler) Export(c *gin.Context) {
	id, ok := uuidParam(c, "id", "document")
	if !ok {
		return
	}
	file, err := h.documentUC.ExportDocument(c.Request.Context(), session(c), id, domain.ExportFormat(c.Query("format")))
	if err != nil {
		c.Error(err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}
