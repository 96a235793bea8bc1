package postgres

import (
	"context"
	"errors"
	"time"

	"cv-generator-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, name, allowed_docs_per_users, allowed_templates, created_templates, created_at, updated_at`

func scanCompany(row scanner) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.Name, &c.AllowedDocsPerUsers, &c.AllowedTemplates, &c.CreatedTemplates, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *companyRepo) Create(ctx context.Context, company *domain.Company) error {
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now
	query := `INSERT INTO companies (id, name, allowed_docs_per_users, allowed_templates, created_templates, created_at, updated_at)
              VALUES ($1, $2, $3, $4, 0, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.AllowedDocsPerUsers, company.AllowedTemplates, company.CreatedAt, company.UpdatedAt,
	)
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	return scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

func (r *companyRepo) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

func (r *companyRepo) Update(ctx context.Context, company *domain.Company) error {
	company.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx,
		`UPDATE companies SET name = $2, allowed_docs_per_users = $3, allowed_templates = $4, updated_at = $5 WHERE id = $1`,
		company.ID, company.Name, company.AllowedDocsPerUsers, company.AllowedTemplates, company.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *companyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *companyRepo) ReserveTemplateSlot(ctx context.Context, id string) error {
	var created int
	err := r.db.QueryRow(ctx,
		`UPDATE companies SET created_templates = created_templates + 1, updated_at = NOW()
         WHERE id = $1 AND created_templates < allowed_templates
         RETURNING created_templates`, id,
	).Scan(&created)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrQuotaExhausted
	}
	return err
}

func (r *companyRepo) ReleaseTemplateSlot(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE companies SET created_templates = created_templates - 1, updated_at = NOW() WHERE id = $1 AND created_templates > 0`, id)
	return err
}
