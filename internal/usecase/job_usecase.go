package usecase

import (
	"context"
	"strings"

	"cv-generator-backend/internal/access"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/audit"
	"cv-generator-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxPageSize = 100

type jobUsecase struct {
	jobRepo  domain.JobRepository
	validate *validator.Validate
	audit    *audit.Logger
}

func NewJobUsecase(jobRepo domain.JobRepository, validate *validator.Validate) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:  jobRepo,
		validate: validate,
		audit:    audit.Default(),
	}
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// ListPublicJobs is the only anonymous read: OPEN listings only.
func (u *jobUsecase) ListPublicJobs(ctx context.Context, page, pageSize int) ([]domain.JobListing, int64, error) {
	limit, offset := pageBounds(page, pageSize)
	jobs, total, err := u.jobRepo.List(ctx, domain.JobFilter{Status: domain.JobStatusOpen, Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return jobs, total, nil
}

func (u *jobUsecase) GetPublicJob(ctx context.Context, id string) (*domain.JobListing, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Job not found")
	}
	if job.Status != domain.JobStatusOpen {
		return nil, apperror.NotFound("Job not found")
	}
	return job, nil
}

// ListJobs returns OPEN jobs to candidates, the company's jobs to ADMINs, the
// caller's own jobs to USERs and everything to a SUPERADMIN.
func (u *jobUsecase) ListJobs(ctx context.Context, actor *domain.Session, page, pageSize int) ([]domain.JobListing, int64, error) {
	if err := authorize(ctx, u.audit, actor, access.ActionViewJob, access.Resource{}); err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(page, pageSize)
	filter := domain.JobFilter{Limit: limit, Offset: offset}
	switch actor.Role {
	case domain.RoleCandidate:
		filter.Status = domain.JobStatusOpen
	case domain.RoleAdmin:
		if actor.CompanyID != "" {
			filter.CompanyID = actor.CompanyID
		} else {
			filter.CreatedBy = actor.UserID
		}
	case domain.RoleUser:
		filter.CreatedBy = actor.UserID
	}

	jobs, total, err := u.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return jobs, total, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, actor *domain.Session, id string) (*domain.JobListing, error) {
	if err := authorize(ctx, u.audit, actor, access.ActionViewJob, access.Resource{}); err != nil {
		return nil, err
	}
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Job not found")
	}
	if job.Status != domain.JobStatusOpen && access.Authorize(actor, access.ActionUpdateJob, jobResource(job)) != nil {
		return nil, apperror.NotFound("Job not found")
	}
	return job, nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, actor *domain.Session, req domain.JobRequest) (*domain.JobListing, error) {
	if err := authorize(ctx, u.audit, actor, access.ActionCreateJob, access.Resource{}); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	job := &domain.JobListing{
		ID:        uuid.NewString(),
		CompanyID: actor.CompanyID,
		CreatedBy: actor.UserID,
		Status:    domain.JobStatusOpen,
	}
	applyJobRequest(job, req)
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, actor *domain.Session, id string, req domain.JobRequest) (*domain.JobListing, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Job not found")
	}
	if err := authorize(ctx, u.audit, actor, access.ActionUpdateJob, jobResource(job)); err != nil {
		return nil, err
	}

	applyJobRequest(job, req)
	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, translate(err, "Job not found")
	}
	return job, nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, actor *domain.Session, id string) error {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return translate(err, "Job not found")
	}
	if err := authorize(ctx, u.audit, actor, access.ActionDeleteJob, jobResource(job)); err != nil {
		return err
	}
	return translate(u.jobRepo.Delete(ctx, job.ID), "Job not found")
}

func jobResource(job *domain.JobListing) access.Resource {
	return access.Resource{OwnerID: job.CreatedBy, CompanyID: job.CompanyID}
}

func applyJobRequest(job *domain.JobListing, req domain.JobRequest) {
	job.Title = strings.TrimSpace(req.Title)
	job.Description = strings.TrimSpace(req.Description)
	job.Location = strings.TrimSpace(req.Location)
	job.SalaryRange = strings.TrimSpace(req.SalaryRange)
	job.Skills = normalizeSkills(req.Skills)
	if req.Status != "" {
		job.Status = req.Status
	}
}
