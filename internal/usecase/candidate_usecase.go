package usecase

import (
	"context"
	"errors"
	"strings"

	"cv-generator-backend/internal/access"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/internal/prompt"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/audit"
	"cv-generator-backend/pkg/llm"
	"cv-generator-backend/pkg/logger"
	"cv-generator-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// tailoringTemperature lets the model rephrase toward the job's keywords.
const tailoringTemperature = 0.3

type candidateUsecase struct {
	candidateRepo domain.CandidateRepository
	userRepo      domain.UserRepository
	jobRepo       domain.JobRepository
	docRepo       domain.DocumentRepository
	usageRepo     domain.UsageRepository
	chat          llm.Generator
	validate      *validator.Validate
	audit         *audit.Logger
}

func NewCandidateUsecase(
	candidateRepo domain.CandidateRepository,
	userRepo domain.UserRepository,
	jobRepo domain.JobRepository,
	docRepo domain.DocumentRepository,
	usageRepo domain.UsageRepository,
	chat llm.Generator,
	validate *validator.Validate,
) domain.CandidateUsecase {
	return &candidateUsecase{
		candidateRepo: candidateRepo,
		userRepo:      userRepo,
		jobRepo:       jobRepo,
		docRepo:       docRepo,
		usageRepo:     usageRepo,
		chat:          chat,
		validate:      validate,
		audit:         audit.Default(),
	}
}

// GetProfile returns the caller's profile, or an empty one if nothing was uploaded yet.
func (u *candidateUsecase) GetProfile(ctx context.Context, actor *domain.Session) (*domain.CandidateProfile, error) {
	if err := u.authorizeSelf(ctx, actor); err != nil {
		return nil, err
	}
	profile, err := u.candidateRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CandidateProfile{UserID: actor.UserID, Skills: []string{}}, nil
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (u *candidateUsecase) UploadMasterCV(ctx context.Context, actor *domain.Session, req domain.UploadMasterCVRequest) (*domain.CandidateProfile, error) {
	if err := u.authorizeSelf(ctx, actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.MasterCV) == "" {
		return nil, apperror.MissingInput("Master CV is required")
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	profile, err := u.candidateRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		profile = &domain.CandidateProfile{UserID: actor.UserID}
	}

	profile.MasterCVContent = req.MasterCV
	profile.MasterCVUploaded = true
	if req.Skills != nil {
		profile.Skills = normalizeSkills(req.Skills)
	}
	if err := u.candidateRepo.Upsert(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

// TailorCV writes a job-specific CV from the caller's master CV. The job
// description comes from the request or from the named job listing. It uses
// the same allowance as recruiter generation.
func (u *candidateUsecase) TailorCV(ctx context.Context, actor *domain.Session, req domain.TailorRequest) (*domain.GenerateResult, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}
	if err := authorize(ctx, u.audit, actor, access.ActionTailorCV, access.Resource{OwnerID: actor.UserID}); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	jobDescription := strings.TrimSpace(req.JobDescription)
	title := strings.TrimSpace(req.DocumentTitle)
	if jobDescription == "" && req.JobListingID != "" {
		job, err := u.jobRepo.GetByID(ctx, req.JobListingID)
		if err != nil {
			return nil, translate(err, "Job not found")
		}
		jobDescription = strings.TrimSpace(job.Description)
		if title == "" {
			title = job.Title
		}
	}

	var masterCV string
	profile, err := u.candidateRepo.GetByUserID(ctx, actor.UserID)
	switch {
	case err == nil:
		masterCV = strings.TrimSpace(profile.MasterCVContent)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, apperror.Internal(err)
	}
	if masterCV == "" {
		return nil, apperror.MissingInput("Upload a master CV before tailoring")
	}
	if jobDescription == "" {
		return nil, apperror.MissingInput("Job description is required")
	}

	user, err := u.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, translate(err, "User not found")
	}
	if result, exhausted := limitReached(ctx, u.audit, user); exhausted {
		return result, nil
	}

	completion, err := u.chat.Generate(ctx, prompt.BuildTailoring(masterCV, jobDescription), tailoringTemperature)
	if err != nil {
		logger.Log.Error("CV tailoring failed", "user_id", user.ID, "error", err)
		return nil, generationError(err)
	}
	content := llm.Clean(completion.Text)
	recordUsage(ctx, u.audit, u.usageRepo, actor, string(prompt.ModeTailoring), completion)

	if title == "" {
		title = "Tailored CV"
	}
	name := user.Name
	if name == "" {
		name = user.Email
	}
	doc := &domain.GeneratedDoc{
		ID:               uuid.NewString(),
		Content:          content,
		DocumentTitle:    title,
		CandidateName:    name,
		CreatedBy:        user.ID,
		CompanyID:        user.CompanyID,
		IsTailoredForJob: true,
		JobDescription:   jobDescription,
	}

	result, err := commitGeneration(ctx, u.audit, u.userRepo, u.docRepo, user, doc)
	if err != nil || result.LimitReached {
		return result, err
	}

	u.audit.Log(ctx, audit.Event{
		Event:   audit.EventDocumentTailored,
		UserID:  user.ID,
		Details: map[string]interface{}{"document_id": doc.ID, "job_listing_id": req.JobListingID},
	})
	return result, nil
}

func (u *candidateUsecase) authorizeSelf(ctx context.Context, actor *domain.Session) error {
	if actor == nil {
		return apperror.Unauthorized("Authentication required")
	}
	return authorize(ctx, u.audit, actor, access.ActionManageProfile, access.Resource{OwnerID: actor.UserID})
}

// normalizeSkills trims entries and drops blanks and case-insensitive duplicates.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
