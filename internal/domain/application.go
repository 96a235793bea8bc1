package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

// SUBMITTED → REVIEWING → INTERVIEW → OFFER → HIRED, or REJECTED / WITHDRAWN
const (
	ApplicationStatusSubmitted ApplicationStatus = "SUBMITTED"
	ApplicationStatusReviewing ApplicationStatus = "REVIEWING"
	ApplicationStatusInterview ApplicationStatus = "INTERVIEW"
	ApplicationStatusOffer     ApplicationStatus = "OFFER"
	ApplicationStatusHired     ApplicationStatus = "HIRED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn ApplicationStatus = "WITHDRAWN"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusReviewing, ApplicationStatusInterview,
		ApplicationStatusOffer, ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

type JobApplication struct {
	ID             string            `json:"id"`
	JobListingID   string            `json:"job_listing_id"`
	CandidateID    string            `json:"candidate_id"`
	GeneratedDocID string            `json:"generated_doc_id"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Joined data for list responses
	JobTitle      *string `json:"job_title,omitempty"`
	CandidateName *string `json:"candidate_name,omitempty"`
}

type ApplicationRepository interface {
	// Create returns ErrDuplicate when the (job, candidate) pair already exists.
	Create(ctx context.Context, app *JobApplication) error
	GetByID(ctx context.Context, id string) (*JobApplication, error)
	ListByJob(ctx context.Context, jobID string) ([]JobApplication, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]JobApplication, error)
	CheckExists(ctx context.Context, jobID, candidateID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus) error
}

type ApplyRequest struct {
	GeneratedDocID string `json:"generated_doc_id" validate:"required,uuid"`
}

type ApplicationUsecase interface {
	ApplyToJob(ctx context.Context, actor *Session, jobID string, req ApplyRequest) (*JobApplication, error)
	ListMyApplications(ctx context.Context, actor *Session) ([]JobApplication, error)
	ListJobApplications(ctx context.Context, actor *Session, jobID string) ([]JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, actor *Session, applicationID string, status ApplicationStatus) error
}
