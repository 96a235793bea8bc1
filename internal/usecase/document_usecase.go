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

type documentUsecase struct {
	userRepo     domain.UserRepository
	templateRepo domain.TemplateRepository
	docRepo      domain.DocumentRepository
	usageRepo    domain.UsageRepository
	generator    llm.Generator
	exporter     domain.DocumentExporter
	validate     *validator.Validate
	audit        *audit.Logger
}

func NewDocumentUsecase(
	userRepo domain.UserRepository,
	templateRepo domain.TemplateRepository,
	docRepo domain.DocumentRepository,
	usageRepo domain.UsageRepository,
	generator llm.Generator,
	exporter domain.DocumentExporter,
	validate *validator.Validate,
) domain.DocumentUsecase {
	return &documentUsecase{
		userRepo:     userRepo,
		templateRepo: templateRepo,
		docRepo:      docRepo,
		usageRepo:    usageRepo,
		generator:    generator,
		exporter:     exporter,
		validate:     validate,
		audit:        audit.Default(),
	}
}

// Generate rewrites an uploaded CV into a recruiter document.
//
// Order: authorize, quota pre-check, build prompt, call the model, clean the
// output, record token usage, take a quota slot, store the document. An
// exhausted allowance is reported through LimitReached, never as an error.
func (u *documentUsecase) Generate(ctx context.Context, actor *domain.Session, req domain.GenerateRequest) (*domain.GenerateResult, error) {
	if err := authorize(ctx, u.audit, actor, access.ActionGenerateDocument, access.Resource{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.CVText) == "" {
		return nil, apperror.MissingInput("CV text is required")
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	// The counter is read from storage, not from the cached session.
	user, err := u.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, translate(err, "User not found")
	}
	if result, exhausted := limitReached(ctx, u.audit, user); exhausted {
		return result, nil
	}

	template, err := u.resolveTemplate(ctx, actor, req.Candidate)
	if err != nil {
		return nil, err
	}
	text := prompt.BuildGeneration(prompt.ForGeneration(req.Mode), template, req.Candidate, req.CVText)

	completion, err := u.generator.Generate(ctx, text, generationTemperature)
	if err != nil {
		logger.Log.Error("CV generation failed", "user_id", user.ID, "error", err)
		return nil, generationError(err)
	}
	content := llm.Clean(completion.Text)
	recordUsage(ctx, u.audit, u.usageRepo, actor, "generation", completion)

	c := req.Candidate
	doc := &domain.GeneratedDoc{
		ID:                uuid.NewString(),
		Content:           content,
		DocumentTitle:     strings.TrimSpace(c.DocumentTitle),
		CandidateName:     strings.TrimSpace(c.Name),
		Location:          c.Location,
		RightToWork:       c.RightToWork,
		SalaryExpectation: c.SalaryExpectation,
		Notes:             c.Notes,
		CreatedBy:         user.ID,
		CompanyID:         user.CompanyID,
	}
	if c.JobDescription != nil {
		doc.JobDescription = *c.JobDescription
	}

	result, err := commitGeneration(ctx, u.audit, u.userRepo, u.docRepo, user, doc)
	if err != nil || result.LimitReached {
		return result, err
	}

	u.audit.Log(ctx, audit.Event{
		Event:     audit.EventDocumentGenerated,
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Details:   map[string]interface{}{"document_id": doc.ID, "created_docs": result.CreatedDocs, "template_id": c.TemplateID},
	})
	return result, nil
}

// resolveTemplate picks the template text for c. Inline content wins over a
// stored template; an unknown or missing template yields "".
func (u *documentUsecase) resolveTemplate(ctx context.Context, actor *domain.Session, c domain.CandidateData) (string, error) {
	if c.TemplateID == domain.BaseTemplateID || c.TemplateContent != nil {
		return prompt.ResolveTemplate(c.TemplateID, c.TemplateContent), nil
	}

	tpl, err := u.templateRepo.GetByID(ctx, c.TemplateID)
	if err != nil {
		logger.Log.Warn("Template not found, generating without one", "template_id", c.TemplateID, "error", err)
		return prompt.ResolveTemplate(c.TemplateID, nil), nil
	}
	if tpl.CompanyID != "" {
		if err := authorize(ctx, u.audit, actor, access.ActionUseTemplate, access.Resource{CompanyID: tpl.CompanyID}); err != nil {
			return "", err
		}
	}
	return prompt.ResolveTemplate(c.TemplateID, &tpl.TemplateContent), nil
}

func (u *documentUsecase) ListDocuments(ctx context.Context, actor *domain.Session) ([]domain.DocInfo, error) {
	if actor == nil || actor.UserID == "" {
		return nil, apperror.Unauthorized("Authentication required")
	}
	docs, err := u.docRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return docs, nil
}

func (u *documentUsecase) GetDocument(ctx context.Context, actor *domain.Session, docID string) (*domain.GeneratedDoc, error) {
	return u.loadOwned(ctx, actor, access.ActionReadDocument, docID)
}

func (u *documentUsecase) DeleteDocument(ctx context.Context, actor *domain.Session, docID string) error {
	doc, err := u.loadOwned(ctx, actor, access.ActionDeleteDocument, docID)
	if err != nil {
		return err
	}
	if err := u.docRepo.Delete(ctx, doc.ID); err != nil {
		if errors.Is(err, domain.ErrInUse) {
			return apperror.Conflict("Document is attached to a job application")
		}
		return translate(err, "Document not found")
	}
	return nil
}

func (u *documentUsecase) ExportDocument(ctx context.Context, actor *domain.Session, docID string, format domain.ExportFormat) (*domain.ExportedFile, error) {
	if format == "" {
		format = domain.ExportPDF
	}
	if format != domain.ExportPDF && format != domain.ExportHTML {
		return nil, apperror.BadRequest("Unsupported export format")
	}
	doc, err := u.loadOwned(ctx, actor, access.ActionReadDocument, docID)
	if err != nil {
		return nil, err
	}

	file, err := u.exporter.Export(ctx, doc, format)
	if err != nil {
		logger.Log.Error("Document export failed", "document_id", doc.ID, "format", string(format), "error", err)
		return nil, translate(err, "Document not found")
	}
	return file, nil
}

func (u *documentUsecase) loadOwned(ctx context.Context, actor *domain.Session, action access.Action, docID string) (*domain.GeneratedDoc, error) {
	if actor == nil || actor.UserID == "" {
		return nil, apperror.Unauthorized("Authentication required")
	}
	doc, err := u.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, translate(err, "Document not found")
	}
	if err := authorize(ctx, u.audit, actor, action, access.Resource{OwnerID: doc.CreatedBy, CompanyID: doc.CompanyID}); err != nil {
		return nil, err
	}
	return doc, nil
}
