package postgres

import (
	"context"
	"time"

	"cv-generator-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application. The UNIQUE (job_listing_id, candidate_id)
// constraint turns a concurrent second apply into ErrDuplicate.
func (r *applicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.ApplicationStatusSubmitted
	}

	query := `
		INSERT INTO job_applications (id, job_listing_id, candidate_id, generated_doc_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		app.ID, app.JobListingID, app.CandidateID, app.GeneratedDocID, app.Status, app.CreatedAt, app.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

// GetByID retrieves an application with the joined job title and candidate name
func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.JobApplication, error) {
	query := `
		SELECT
			a.id, a.job_listing_id, a.candidate_id, a.generated_doc_id, a.status, a.created_at, a.updated_at,
			j.title as job_title,
			COALESCE(NULLIF(u.name, ''), u.email) as candidate_name
		FROM job_applications a
		LEFT JOIN job_listings j ON a.job_listing_id = j.id
		LEFT JOIN users u ON a.candidate_id = u.id
		WHERE a.id = $1`

	var app domain.JobApplication
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.JobListingID, &app.CandidateID, &app.GeneratedDocID, &app.Status, &app.CreatedAt, &app.UpdatedAt,
		&app.JobTitle, &app.CandidateName,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

// ListByJob retrieves all applications for a job with candidate names
func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]domain.JobApplication, error) {
	query := `
		SELECT
			a.id, a.job_listing_id, a.candidate_id, a.generated_doc_id, a.status, a.created_at, a.updated_at,
			COALESCE(NULLIF(u.name, ''), u.email) as candidate_name
		FROM job_applications a
		LEFT JOIN users u ON a.candidate_id = u.id
		WHERE a.job_listing_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := []domain.JobApplication{}
	for rows.Next() {
		var app domain.JobApplication
		if err := rows.Scan(
			&app.ID, &app.JobListingID, &app.CandidateID, &app.GeneratedDocID, &app.Status, &app.CreatedAt, &app.UpdatedAt,
			&app.CandidateName,
		); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	return applications, rows.Err()
}

// ListByCandidate retrieves all applications of a candidate with job titles
func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]domain.JobApplication, error) {
	query := `
		SELECT
			a.id, a.job_listing_id, a.candidate_id, a.generated_doc_id, a.status, a.created_at, a.updated_at,
			j.title as job_title
		FROM job_applications a
		LEFT JOIN job_listings j ON a.job_listing_id = j.id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := []domain.JobApplication{}
	for rows.Next() {
		var app domain.JobApplication
		if err := rows.Scan(
			&app.ID, &app.JobListingID, &app.CandidateID, &app.GeneratedDocID, &app.Status, &app.CreatedAt, &app.UpdatedAt,
			&app.JobTitle,
		); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	return applications, rows.Err()
}

// CheckExists checks if a candidate has already applied to a job
func (r *applicationRepo) CheckExists(ctx context.Context, jobID, candidateID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM job_applications WHERE job_listing_id = $1 AND candidate_id = $2)`,
		jobID, candidateID,
	).Scan(&exists)
	return exists, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE job_applications SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
