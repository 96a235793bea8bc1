package postgres

import (
	"context"
	"time"

	"cv-generator-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type documentRepo struct {
	db *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) domain.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.GeneratedDoc) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO generated_docs (
			id, content, document_title, candidate_name, location, right_to_work, salary_expectation, notes,
			created_by, company_id, is_tailored_for_job, job_description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		doc.ID, doc.Content, doc.DocumentTitle, doc.CandidateName, doc.Location, doc.RightToWork,
		doc.SalaryExpectation, doc.Notes, doc.CreatedBy, nullable(doc.CompanyID), doc.IsTailoredForJob,
		doc.JobDescription, doc.CreatedAt,
	)
	return err
}

// ListByUser returns the user's documents newest first, without content.
func (r *documentRepo) ListByUser(ctx context.Context, userID string) ([]domain.DocInfo, error) {
	query := `
		SELECT id, document_title, candidate_name, is_tailored_for_job, created_at
		FROM generated_docs
		WHERE created_by = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.DocInfo{}
	for rows.Next() {
		var d domain.DocInfo
		if err := rows.Scan(&d.ID, &d.DocumentTitle, &d.CandidateName, &d.IsTailoredForJob, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*domain.GeneratedDoc, error) {
	query := `
		SELECT id, content, document_title, candidate_name, location, right_to_work, salary_expectation, notes,
		       created_by, COALESCE(company_id::text, ''), is_tailored_for_job, job_description, created_at
		FROM generated_docs WHERE id = $1`

	var d domain.GeneratedDoc
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Content, &d.DocumentTitle, &d.CandidateName, &d.Location, &d.RightToWork, &d.SalaryExpectation,
		&d.Notes, &d.CreatedBy, &d.CompanyID, &d.IsTailoredForJob, &d.JobDescription, &d.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM generated_docs WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) CountByUserInCompany(ctx context.Context, companyID string) (map[string]int, error) {
	query := `
		SELECT d.created_by, COUNT(*)
		FROM generated_docs d
		JOIN users u ON u.id = d.created_by
		WHERE u.company_id = $1
		GROUP BY d.created_by`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var n int
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, err
		}
		counts[userID] = n
	}
	return counts, rows.Err()
}
