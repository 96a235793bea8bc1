package api

import (
	"net/http"

	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC         domain.JobUsecase
	applicationUC domain.ApplicationUsecase
}

func NewJobHandler(public, protected *gin.RouterGroup, jobUC domain.JobUsecase, applicationUC domain.ApplicationUsecase) {
	handler := &JobHandler{jobUC: jobUC, applicationUC: applicationUC}

	// Anonymous reads only ever see OPEN listings
	publicJobs := public.Group("/jobs/public")
	{
		publicJobs.GET("", handler.PublicList)
		publicJobs.GET("/:id", handler.PublicGet)
	}

	jobs := protected.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.POST("", handler.Create)
		jobs.GET("/:id", handler.Get)
		jobs.PATCH("/:id", handler.Update)
		jobs.DELETE("/:id", handler.Delete)
		jobs.POST("/:id/apply", handler.Apply)
		jobs.GET("/:id/applications", handler.Applications)
	}
}

// PublicList godoc
// @Summary      List open jobs
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page (from 1)"
// @Param        page_size  query     int  false  "Page size (max 100)"
// @Success      200        {object}  response.Response{data=response.Page}
// @Router       /jobs/public [get]
func (h *JobHandler) PublicList(c *gin.Context) {
	page, pageSize := pageQuery(c)
	jobs, total, err := h.jobUC.ListPublicJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", response.Page{Items: jobs, Total: total, Page: page, PageSize: pageSize})
}

// PublicGet godoc
// @Summary      Get an open job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.JobListing}
// @Failure      404  {object}  response.Response
// @Router       /jobs/public/{id} [get]
func (h *JobHandler) PublicGet(c *gin.Context) {
	id, ok := uuidParam(c, "id", "job")
	if !ok {
		return
	}
	job, err := h.jobUC.GetPublicJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// List godoc
// @Summary      List jobs visible to the caller
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page (from 1)"
// @Param        page_size  query     int  false  "Page size (max 100)"
// @Success      200        {object}  response.Response{data=response.Page}
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	page, pageSize := pageQuery(c)
	jobs, total, err := h.jobUC.ListJobs(c.Request.Context(), session(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", response.Page{Items: jobs, Total: total, Page: page, PageSize: pageSize})
}

// Get godoc
// @Summary      Get job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.JobListing}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "job")
	if !ok {
		return
	}
	job, err := h.jobUC.GetJob(c.Request.Context(), session(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// Create godoc
// @Summary      Create job listing
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      domain.JobRequest  true  "Job"
// @Success      201   {object}  response.Response{data=domain.JobListing}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req domain.JobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobUC.CreateJob(c.Request.Context(), session(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

// Update godoc
// @Summary      Update job listing
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Job ID"
// @Param        body  body      domain.JobRequest  true  "Job"
// @Success      200   {object}  response.Response{data=domain.JobListing}
// @Failure      403   {object}  response.Response
// @Router       /jobs/{id} [patch]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id", "job")
	if !ok {
		return
	}
	var req domain.JobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobUC.UpdateJob(c.Request.Context(), session(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// Delete godoc
// @Summary      Delete job listing
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "job")
	if !ok {
		return
	}
	if err := h.jobUC.DeleteJob(c.Request.Context(), session(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Submits one of the caller's generated documents to an OPEN job
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Job ID"
// @Param        body  body      domain.ApplyRequest  true  "Document to submit"
// @Success      201   {object}  response.Response{data=domain.JobApplication}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /jobs/{id}/apply [post]
// @Security     BearerAuth
func (h *JobHandler) Apply(c *gin.Context) {
	id, ok := uuidParam(c, "id", "job")
	if !ok {
		return
	}
	var req domain.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.applicationUC.ApplyToJob(c.Request.Context(), session(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// Applications godoc
// @Summary      List applications of a job
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=[]domain.JobApplication}
// @Failure      403  {object}  response.Response
// @Router       /jobs/{id}/applications [get]
// @Security     BearerAuth
func (h *JobHandler) Applications(c *gin.Context) {
	id, ok := uuidParam(c, "id", "job")
	if !ok {
		return
	}
	apps, err := h.applicationUC.ListJobApplications(c.Request.Context(), session(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}
