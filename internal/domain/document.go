package domain

import (
	"context"
	"time"
)

// CandidateData is the structured recruiter input for one generation.
type CandidateData struct {
	DocumentTitle     string  `json:"document_title" validate:"required,not_blank,max=200"`
	Name              string  `json:"name" validate:"required,not_blank,valid_name,max=200"`
	Location          string  `json:"location" validate:"max=200"`
	RightToWork       string  `json:"right_to_work" validate:"max=200"`
	SalaryExpectation string  `json:"salary_expectation" validate:"max=100"`
	Notes             string  `json:"notes" validate:"max=5000"`
	TemplateID        string  `json:"template_id" validate:"required"`
	TemplateContent   *string `json:"template_content,omitempty"`
	JobDescription    *string `json:"job_description,omitempty"`
}

// GeneratedDoc is an immutable, persisted generation result.
type GeneratedDoc struct {
	ID                string    `json:"id"`
	Content           string    `json:"content"`
	DocumentTitle     string    `json:"document_title"`
	CandidateName     string    `json:"candidate_name"`
	Location          string    `json:"location"`
	RightToWork       string    `json:"right_to_work"`
	SalaryExpectation string    `json:"salary_expectation"`
	Notes             string    `json:"notes"`
	CreatedBy         string    `json:"created_by"`
	CompanyID         string    `json:"company_id,omitempty"`
	IsTailoredForJob  bool      `json:"is_tailored_for_job"`
	JobDescription    string    `json:"job_description,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// DocInfo is the list projection of a GeneratedDoc, without content.
type DocInfo struct {
	ID               string    `json:"id"`
	DocumentTitle    string    `json:"document_title"`
	CandidateName    string    `json:"candidate_name"`
	IsTailoredForJob bool      `json:"is_tailored_for_job"`
	CreatedAt        time.Time `json:"created_at"`
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *GeneratedDoc) error
	ListByUser(ctx context.Context, userID string) ([]DocInfo, error)
	GetByID(ctx context.Context, id string) (*GeneratedDoc, error)
	Delete(ctx context.Context, id string) error
	// CountByUserInCompany maps user ID to number of stored documents.
	CountByUserInCompany(ctx context.Context, companyID string) (map[string]int, error)
}

// TokenUsage is the token accounting reported by a generation backend.
type TokenUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

type UsageRecord struct {
	UserID    string
	CompanyID string
	Model     string
	Purpose   string
	Usage     TokenUsage
	CreatedAt time.Time
}

type UsageRepository interface {
	Record(ctx context.Context, rec UsageRecord) error
}

// GenerationMode selects the instruction set used for recruiter generation.
type GenerationMode string

const (
	GenerationModeStructured GenerationMode = "structured"
	GenerationModeStandard   GenerationMode = "standard"
)

type GenerateRequest struct {
	Candidate CandidateData  `json:"candidate" validate:"required"`
	CVText    string         `json:"cv_text" validate:"required,not_blank"`
	Mode      GenerationMode `json:"mode" validate:"omitempty,oneof=structured standard"`
}

// GenerateResult reports a generation. LimitReached means nothing was generated
// because the caller has no allowance left; it is not an error.
type GenerateResult struct {
	Content      string        `json:"content"`
	Document     *GeneratedDoc `json:"document,omitempty"`
	CreatedDocs  int           `json:"created_docs"`
	LimitReached bool          `json:"limit_reached"`
}

// ExportFormat is the output type of a document export.
type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportHTML ExportFormat = "html"
)

// ExportedFile is a rendered document ready for download.
type ExportedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type DocumentUsecase interface {
	Generate(ctx context.Context, actor *Session, req GenerateRequest) (*GenerateResult, error)
	ListDocuments(ctx context.Context, actor *Session) ([]DocInfo, error)
	GetDocument(ctx context.Context, actor *Session, docID string) (*GeneratedDoc, error)
	DeleteDocument(ctx context.Context, actor *Session, docID string) error
	ExportDocument(ctx context.Context, actor *Session, docID string, format ExportFormat) (*ExportedFile, error)
}

// DocumentExporter renders stored Markdown into a downloadable file.
type DocumentExporter interface {
	Export(ctx context.Context, doc *GeneratedDoc, format ExportFormat) (*ExportedFile, error)
}
