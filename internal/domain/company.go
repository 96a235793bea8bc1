package domain

import (
	"context"
	"time"
)

type Company struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	AllowedDocsPerUsers int       `json:"allowed_docs_per_users"`
	AllowedTemplates    int       `json:"allowed_templates"`
	CreatedTemplates    int       `json:"created_templates"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, company *Company) error
	Delete(ctx context.Context, id string) error
	// ReserveTemplateSlot increments created_templates while below allowed_templates,
	// returning ErrQuotaExhausted otherwise.
	ReserveTemplateSlot(ctx context.Context, id string) error
	ReleaseTemplateSlot(ctx context.Context, id string) error
}

type CompanyRequest struct {
	Name                string `json:"name" validate:"required,not_blank,max=200"`
	AllowedDocsPerUsers int    `json:"allowed_docs_per_users" validate:"min=0"`
	AllowedTemplates    int    `json:"allowed_templates" validate:"min=0"`
}

// UsageRow is one line of a company usage report.
type UsageRow struct {
	UserID        string
	Email         string
	Name          string
	Role          Role
	CreatedDocs   int
	AllowedDocs   int
	GeneratedDocs int
}

type CompanyUsecase interface {
	ListCompanies(ctx context.Context, actor *Session) ([]Company, error)
	CreateCompany(ctx context.Context, actor *Session, req CompanyRequest) (*Company, error)
	EditCompany(ctx context.Context, actor *Session, companyID string, req CompanyRequest) (*Company, error)
	DeleteCompany(ctx context.Context, actor *Session, companyID string) error
	// ExportUsage renders the company's per-user quota usage as an XLSX workbook.
	ExportUsage(ctx context.Context, actor *Session, companyID string) ([]byte, string, error)
}
