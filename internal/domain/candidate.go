package domain

import (
	"context"
	"time"
)

type CandidateProfile struct {
	UserID           string    `json:"user_id"`
	MasterCVContent  string    `json:"master_cv_content"`
	MasterCVUploaded bool      `json:"master_cv_uploaded"`
	Skills           []string  `json:"skills"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CandidateRepository interface {
	GetByUserID(ctx context.Context, userID string) (*CandidateProfile, error)
	Upsert(ctx context.Context, profile *CandidateProfile) error
}

type UploadMasterCVRequest struct {
	MasterCV string   `json:"master_cv" validate:"required,not_blank"`
	Skills   []string `json:"skills" validate:"omitempty,max=100,dive,max=100"`
}

// TailorRequest names either a job listing or a pasted job description.
type TailorRequest struct {
	JobListingID   string `json:"job_listing_id" validate:"omitempty,uuid"`
	JobDescription string `json:"job_description"`
	DocumentTitle  string `json:"document_title" validate:"max=200"`
}

type CandidateUsecase interface {
	GetProfile(ctx context.Context, actor *Session) (*CandidateProfile, error)
	UploadMasterCV(ctx context.Context, actor *Session, req UploadMasterCVRequest) (*CandidateProfile, error)
	TailorCV(ctx context.Context, actor *Session, req TailorRequest) (*GenerateResult, error)
}
