package domain

import (
	"context"
	"time"
)

type JobStatus string

const (
	JobStatusOpen         JobStatus = "OPEN"
	JobStatusFilled       JobStatus = "FILLED"
	JobStatusClosed       JobStatus = "CLOSED"
	JobStatusExternalFill JobStatus = "EXTERNAL_FILL"
	JobStatusCustom       JobStatus = "CUSTOM"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusFilled, JobStatusClosed, JobStatusExternalFill, JobStatusCustom:
		return true
	}
	return false
}

type JobListing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	SalaryRange string    `json:"salary_range"`
	Skills      []string  `json:"skills"`
	Status      JobStatus `json:"status"`
	CompanyID   string    `json:"company_id,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type JobFilter struct {
	Status    JobStatus
	CompanyID string
	CreatedBy string
	Limit     int
	Offset    int
}

type JobRepository interface {
	Create(ctx context.Context, job *JobListing) error
	GetByID(ctx context.Context, id string) (*JobListing, error)
	List(ctx context.Context, filter JobFilter) ([]JobListing, int64, error)
	Update(ctx context.Context, job *JobListing) error
	Delete(ctx context.Context, id string) error
}

type JobRequest struct {
	Title       string    `json:"title" validate:"required,not_blank,max=200"`
	Description string    `json:"description" validate:"required,not_blank"`
	Location    string    `json:"location" validate:"max=200"`
	SalaryRange string    `json:"salary_range" validate:"max=100"`
	Skills      []string  `json:"skills" validate:"omitempty,max=50,dive,max=100"`
	Status      JobStatus `json:"status" validate:"omitempty,oneof=OPEN FILLED CLOSED EXTERNAL_FILL CUSTOM"`
}

type JobUsecase interface {
	ListPublicJobs(ctx context.Context, page, pageSize int) ([]JobListing, int64, error)
	GetPublicJob(ctx context.Context, id string) (*JobListing, error)
	ListJobs(ctx context.Context, actor *Session, page, pageSize int) ([]JobListing, int64, error)
	GetJob(ctx context.Context, actor *Session, id string) (*JobListing, error)
	CreateJob(ctx context.Context, actor *Session, req JobRequest) (*JobListing, error)
	UpdateJob(ctx context.Context, actor *Session, id string, req JobRequest) (*JobListing, error)
	DeleteJob(ctx context.Context, actor *Session, id string) error
}
