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

const baseTemplateName = "Base template"

type templateUsecase struct {
	templateRepo domain.TemplateRepository
	companyRepo  domain.CompanyRepository
	usageRepo    domain.UsageRepository
	generator    llm.Generator
	validate     *validator.Validate
	audit        *audit.Logger
}

func NewTemplateUsecase(
	templateRepo domain.TemplateRepository,
	companyRepo domain.CompanyRepository,
	usageRepo domain.UsageRepository,
	generator llm.Generator,
	validate *validator.Validate,
) domain.TemplateUsecase {
	return &templateUsecase{
		templateRepo: templateRepo,
		companyRepo:  companyRepo,
		usageRepo:    usageRepo,
		generator:    generator,
		validate:     validate,
		audit:        audit.Default(),
	}
}

// ListTemplates returns the built-in template first, then shared templates and
// those of companyID (the caller's company by default).
func (u *templateUsecase) ListTemplates(ctx context.Context, actor *domain.Session, companyID string) ([]domain.Template, error) {
	if actor == nil || actor.UserID == "" {
		return nil, apperror.Unauthorized("Authentication required")
	}
	if actor.Role == domain.RoleCandidate {
		return nil, apperror.Forbidden("candidates cannot use recruiter templates")
	}
	if companyID == "" {
		companyID = actor.CompanyID
	}
	if companyID != "" {
		if err := authorize(ctx, u.audit, actor, access.ActionUseTemplate, access.Resource{CompanyID: companyID}); err != nil {
			return nil, err
		}
	}

	stored, err := u.templateRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	templates := make([]domain.Template, 0, len(stored)+1)
	templates = append(templates, domain.Template{
		ID:              domain.BaseTemplateID,
		Name:            baseTemplateName,
		TemplateContent: prompt.BaseTemplate,
	})
	return append(templates, stored...), nil
}

func (u *templateUsecase) CreateTemplate(ctx context.Context, actor *domain.Session, req domain.TemplateRequest) (*domain.Template, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}
	companyID := u.targetCompany(actor, req.CompanyID)
	if err := authorize(ctx, u.audit, actor, access.ActionCreateTemplate, access.Resource{CompanyID: companyID}); err != nil {
		return nil, err
	}
	return u.store(ctx, req.Name, req.TemplateContent, companyID)
}

// ExtractTemplate asks the model to turn the text of an example CV into a
// reusable template and stores the result like CreateTemplate.
func (u *templateUsecase) ExtractTemplate(ctx context.Context, actor *domain.Session, req domain.ExtractTemplateRequest) (*domain.Template, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}
	companyID := u.targetCompany(actor, req.CompanyID)
	if err := authorize(ctx, u.audit, actor, access.ActionCreateTemplate, access.Resource{CompanyID: companyID}); err != nil {
		return nil, err
	}

	completion, err := u.generator.Generate(ctx, prompt.BuildTemplateExtraction(req.PDFText), generationTemperature)
	if err != nil {
		logger.Log.Error("Template extraction failed", "user_id", actor.UserID, "error", err)
		return nil, generationError(err)
	}
	recordUsage(ctx, u.audit, u.usageRepo, actor, string(prompt.ModeExtractTemplate), completion)

	content := strings.TrimSpace(llm.Clean(completion.Text))
	if content == "" {
		return nil, apperror.Upstream("The generation service returned an empty template", nil)
	}
	return u.store(ctx, req.Name, content, companyID)
}

func (u *templateUsecase) EditTemplate(ctx context.Context, actor *domain.Session, templateID string, req domain.TemplateRequest) (*domain.Template, error) {
	if templateID == domain.BaseTemplateID {
		return nil, apperror.BadRequest("The base template cannot be modified")
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	tpl, err := u.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, translate(err, "Template not found")
	}
	if err := authorize(ctx, u.audit, actor, access.ActionEditTemplate, access.Resource{CompanyID: tpl.CompanyID}); err != nil {
		return nil, err
	}

	tpl.Name = strings.TrimSpace(req.Name)
	tpl.TemplateContent = req.TemplateContent
	if err := u.templateRepo.Update(ctx, tpl); err != nil {
		return nil, translate(err, "Template not found")
	}
	return tpl, nil
}

func (u *templateUsecase) DeleteTemplate(ctx context.Context, actor *domain.Session, templateID string) error {
	if templateID == domain.BaseTemplateID {
		return apperror.BadRequest("The base template cannot be deleted")
	}
	tpl, err := u.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return translate(err, "Template not found")
	}
	if err := authorize(ctx, u.audit, actor, access.ActionDeleteTemplate, access.Resource{CompanyID: tpl.CompanyID}); err != nil {
		return err
	}

	if err := u.templateRepo.Delete(ctx, tpl.ID); err != nil {
		return translate(err, "Template not found")
	}
	if tpl.CompanyID != "" {
		if err := u.companyRepo.ReleaseTemplateSlot(ctx, tpl.CompanyID); err != nil {
			logger.Log.Error("Failed to release template slot", "company_id", tpl.CompanyID, "error", err)
		}
	}
	return nil
}

func (u *templateUsecase) targetCompany(actor *domain.Session, requested string) string {
	if requested == "" && actor != nil && actor.Role != domain.RoleSuperAdmin {
		return actor.CompanyID
	}
	return requested
}

// store takes a company template slot, then inserts. The slot is returned if
// the insert fails.
func (u *templateUsecase) store(ctx context.Context, name, content, companyID string) (*domain.Template, error) {
	if companyID != "" {
		if err := u.companyRepo.ReserveTemplateSlot(ctx, companyID); err != nil {
			if errors.Is(err, domain.ErrQuotaExhausted) {
				return nil, apperror.Conflict("Template limit reached for this company")
			}
			return nil, translate(err, "Company not found")
		}
	}

	tpl := &domain.Template{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(name),
		TemplateContent: content,
		CompanyID:       companyID,
	}
	if err := u.templateRepo.Create(ctx, tpl); err != nil {
		if companyID != "" {
			if relErr := u.companyRepo.ReleaseTemplateSlot(ctx, companyID); relErr != nil {
				logger.Log.Error("Failed to release template slot", "company_id", companyID, "error", relErr)
			}
		}
		return nil, apperror.Internal(err)
	}
	return tpl, nil
}
