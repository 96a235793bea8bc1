package api

import (
	"net/http"

	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	r.PATCH("/applications/:id/status", handler.UpdateStatus)
}

// UpdateStatusRequest moves an application through the pipeline.
type UpdateStatusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
}

// UpdateStatus godoc
// @Summary      Update application status
// @Description  Job managers set any status; the applicant may only withdraw
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "New status"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id", "application")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.applicationUC.UpdateApplicationStatus(c.Request.Context(), session(c), id, req.Status); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", nil)
}
