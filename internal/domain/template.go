package domain

import (
	"context"
	"time"
)

// BaseTemplateID selects the built-in template instead of a stored one.
const BaseTemplateID = "pp"

type Template struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TemplateContent string    `json:"template_content"`
	CompanyID       string    `json:"company_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TemplateRepository interface {
	Create(ctx context.Context, tpl *Template) error
	GetByID(ctx context.Context, id string) (*Template, error)
	ListByCompany(ctx context.Context, companyID string) ([]Template, error)
	Update(ctx context.Context, tpl *Template) error
	Delete(ctx context.Context, id string) error
}

type TemplateRequest struct {
	Name            string `json:"name" validate:"required,not_blank,max=200"`
	TemplateContent string `json:"template_content" validate:"required,not_blank"`
	CompanyID       string `json:"company_id" validate:"omitempty,uuid"`
}

// ExtractTemplateRequest carries text pulled out of an uploaded example CV.
type ExtractTemplateRequest struct {
	Name      string `json:"name" validate:"required,not_blank,max=200"`
	PDFText   string `json:"pdf_text" validate:"required,not_blank"`
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
}

type TemplateUsecase interface {
	ListTemplates(ctx context.Context, actor *Session, companyID string) ([]Template, error)
	CreateTemplate(ctx context.Context, actor *Session, req TemplateRequest) (*Template, error)
	ExtractTemplate(ctx context.Context, actor *Session, req ExtractTemplateRequest) (*Template, error)
	EditTemplate(ctx context.Context, actor *Session, templateID string, req TemplateRequest) (*Template, error)
	DeleteTemplate(ctx context.Context, actor *Session, templateID string) error
}
