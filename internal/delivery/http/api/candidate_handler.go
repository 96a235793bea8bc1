package api

import (
	"net/http"

	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC   domain.CandidateUsecase
	applicationUC domain.ApplicationUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase, applicationUC domain.ApplicationUsecase, generationLimit gin.HandlerFunc) {
	handler := &CandidateHandler{candidateUC: candidateUC, applicationUC: applicationUC}

	candidate := r.Group("/candidate")
	{
		candidate.GET("/profile", handler.GetProfile)
		candidate.POST("/master-cv", handler.UploadMasterCV)
		candidate.POST("/tailor", generationLimit, handler.Tailor)
		candidate.GET("/applications", handler.MyApplications)
	}
}

// GetProfile godoc
// @Summary      My candidate profile
// @Tags         candidate
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CandidateProfile}
// @Router       /candidate/profile [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetProfile(c *gin.Context) {
	profile, err := h.candidateUC.GetProfile(c.Request.Context(), session(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UploadMasterCV godoc
// @Summary      Upload master CV
// @Tags         candidate
// @Accept       json
// @Produce      json
// @Param        body  body      domain.UploadMasterCVRequest  true  "Master CV"
// @Success      200   {object}  response.Response{data=domain.CandidateProfile}
// @Failure      400   {object}  response.Response
// @Router       /candidate/master-cv [post]
// @Security     BearerAuth
func (h *CandidateHandler) UploadMasterCV(c *gin.Context) {
	var req domain.UploadMasterCVRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.candidateUC.UploadMasterCV(c.Request.Context(), session(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Master CV saved", profile)
}

// Tailor godoc
// @Summary      Tailor CV to a job
// @Description  Writes a job-specific CV from the master CV. Uses the same allowance as recruiter generation.
// @Tags         candidate
// @Accept       json
// @Produce      json
// @Param        body  body      domain.TailorRequest  true  "Job listing or description"
// @Success      201   {object}  response.Response{data=domain.GenerateResult}
// @Success      200   {object}  response.Response{data=domain.GenerateResult}
// @Failure      400   {object}  response.Response
// @Failure      502   {object}  response.Response
// @Router       /candidate/tailor [post]
// @Security     BearerAuth
func (h *CandidateHandler) Tailor(c *gin.Context) {
	var req domain.TailorRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.candidateUC.TailorCV(c.Request.Context(), session(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	writeGenerateResult(c, result, "Tailored CV generated")
}

// MyApplications godoc
// @Summary      My applications
// @Tags         candidate
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.JobApplication}
// @Router       /candidate/applications [get]
// @Security     BearerAuth
func (h *CandidateHandler) MyApplications(c *gin.Context) {
	apps, err := h.applicationUC.ListMyApplications(c.Request.Context(), session(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}
