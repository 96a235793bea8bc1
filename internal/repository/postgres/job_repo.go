package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cv-generator-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, title, description, location, salary_range, skills, status, COALESCE(company_id::text, ''), created_by, created_at, updated_at`

func scanJob(row scanner) (*domain.JobListing, error) {
	var j domain.JobListing
	var skills []string
	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Location, &j.SalaryRange, pq.Array(&skills),
		&j.Status, &j.CompanyID, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	j.Skills = skills
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return &j, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.JobListing) error {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	query := `INSERT INTO job_listings (id, title, description, location, salary_range, skills, status, company_id, created_by, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Location, job.SalaryRange, pq.Array(job.Skills),
		job.Status, nullable(job.CompanyID), job.CreatedBy, job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.JobListing, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM job_listings WHERE id = $1`, id))
}

func (r *jobRepo) List(ctx context.Context, filter domain.JobFilter) ([]domain.JobListing, int64, error) {
	var conds []string
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		conds = append(conds, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		conds = append(conds, fmt.Sprintf("created_by = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM job_listings`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	pageArgs := append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM job_listings%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := []domain.JobListing{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, total, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.JobListing) error {
	job.UpdatedAt = time.Now()
	query := `UPDATE job_listings SET title = $2, description = $3, location = $4, salary_range = $5, skills = $6, status = $7, updated_at = $8
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Location, job.SalaryRange, pq.Array(job.Skills), job.Status, job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
