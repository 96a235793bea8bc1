package usecase

import (
	"context"
	"errors"

	"cv-generator-backend/internal/access"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/audit"
	"cv-generator-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const msgAlreadyApplied = "You have already applied to this job"

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	docRepo         domain.DocumentRepository
	validate        *validator.Validate
	audit           *audit.Logger
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	docRepo domain.DocumentRepository,
	validate *validator.Validate,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: appRepo,
		jobRepo:         jobRepo,
		docRepo:         docRepo,
		validate:        validate,
		audit:           audit.Default(),
	}
}

// ApplyToJob submits the candidate's document to an OPEN job
func (uc *applicationUsecase) ApplyToJob(ctx context.Context, actor *domain.Session, jobID string, req domain.ApplyRequest) (*domain.JobApplication, error) {
	// 1. Caller may apply at all
	if err := authorize(ctx, uc.audit, actor, access.ActionApplyToJob, access.Resource{}); err != nil {
		return nil, err
	}
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	// 2. Job exists and is open
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, translate(err, "Job not found")
	}
	if job.Status != domain.JobStatusOpen {
		return nil, apperror.BadRequest("This job is no longer accepting applications")
	}

	// 3. The document belongs to the candidate
	doc, err := uc.docRepo.GetByID(ctx, req.GeneratedDocID)
	if err != nil {
		return nil, translate(err, "Document not found")
	}
	if doc.CreatedBy != actor.UserID {
		return nil, apperror.Forbidden("document belongs to another user")
	}

	// 4. Sequential duplicates; concurrent ones are caught by the unique constraint
	exists, err := uc.applicationRepo.CheckExists(ctx, job.ID, actor.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict(msgAlreadyApplied)
	}

	// 5. Create
	app := &domain.JobApplication{
		ID:             uuid.NewString(),
		JobListingID:   job.ID,
		CandidateID:    actor.UserID,
		GeneratedDocID: doc.ID,
		Status:         domain.ApplicationStatusSubmitted,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict(msgAlreadyApplied)
		}
		return nil, apperror.Internal(err)
	}
	title := job.Title
	app.JobTitle = &title

	uc.audit.Log(ctx, audit.Event{
		Event:     audit.EventApplicationSubmitted,
		UserID:    actor.UserID,
		CompanyID: job.CompanyID,
		Details:   map[string]interface{}{"application_id": app.ID, "job_listing_id": job.ID},
	})
	return app, nil
}

// ListMyApplications returns the caller's applications with job titles
func (uc *applicationUsecase) ListMyApplications(ctx context.Context, actor *domain.Session) ([]domain.JobApplication, error) {
	if actor == nil || actor.UserID == "" {
		return nil, apperror.Unauthorized("Authentication required")
	}
	apps, err := uc.applicationRepo.ListByCandidate(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// ListJobApplications returns all applications of a job to its managers
func (uc *applicationUsecase) ListJobApplications(ctx context.Context, actor *domain.Session, jobID string) ([]domain.JobApplication, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, translate(err, "Job not found")
	}
	if err := authorize(ctx, uc.audit, actor, access.ActionViewJobApplications, jobResource(job)); err != nil {
		return nil, err
	}
	apps, err := uc.applicationRepo.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// UpdateApplicationStatus lets job managers move an application through the
// pipeline. A candidate may only withdraw their own application.
func (uc *applicationUsecase) UpdateApplicationStatus(ctx context.Context, actor *domain.Session, applicationID string, status domain.ApplicationStatus) error {
	if !status.Valid() {
		return apperror.BadRequest("Invalid application status")
	}
	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return translate(err, "Application not found")
	}

	if actor != nil && actor.UserID == app.CandidateID && actor.Role != domain.RoleSuperAdmin {
		if status != domain.ApplicationStatusWithdrawn {
			return apperror.Forbidden("candidates can only withdraw their application")
		}
		if err := authorize(ctx, uc.audit, actor, access.ActionWithdrawOwnApplication, access.Resource{OwnerID: app.CandidateID}); err != nil {
			return err
		}
	} else {
		job, err := uc.jobRepo.GetByID(ctx, app.JobListingID)
		if err != nil {
			return translate(err, "Job not found")
		}
		if err := authorize(ctx, uc.audit, actor, access.ActionUpdateApplication, jobResource(job)); err != nil {
			return err
		}
	}

	return translate(uc.applicationRepo.UpdateStatus(ctx, app.ID, status), "Application not found")
}
