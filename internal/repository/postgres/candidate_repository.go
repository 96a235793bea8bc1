package postgres

import (
	"context"
	"time"

	"cv-generator-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	query := `
		SELECT user_id, master_cv_content, master_cv_uploaded, skills, created_at, updated_at
		FROM candidate_profiles WHERE user_id = $1`

	var p domain.CandidateProfile
	var skills []string
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.MasterCVContent, &p.MasterCVUploaded, pq.Array(&skills), &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	p.Skills = skills
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return &p, nil
}

func (r *candidateRepository) Upsert(ctx context.Context, profile *domain.CandidateProfile) error {
	now := time.Now()
	profile.UpdatedAt = now
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	skills := profile.Skills
	if skills == nil {
		skills = []string{}
	}

	query := `
		INSERT INTO candidate_profiles (user_id, master_cv_content, master_cv_uploaded, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			master_cv_content = EXCLUDED.master_cv_content,
			master_cv_uploaded = EXCLUDED.master_cv_uploaded,
			skills = EXCLUDED.skills,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at`

	return r.db.QueryRow(ctx, query,
		profile.UserID, profile.MasterCVContent, profile.MasterCVUploaded, pq.Array(skills), profile.CreatedAt, profile.UpdatedAt,
	).Scan(&profile.CreatedAt)
}
