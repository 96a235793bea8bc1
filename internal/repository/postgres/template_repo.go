package postgres

import (
	"context"
	"time"

	"cv-generator-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type templateRepo struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) domain.TemplateRepository {
	return &templateRepo{db: db}
}

const templateColumns = `id, name, template_content, COALESCE(company_id::text, ''), created_at, updated_at`

func scanTemplate(row scanner) (*domain.Template, error) {
	var t domain.Template
	if err := row.Scan(&t.ID, &t.Name, &t.TemplateContent, &t.CompanyID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *templateRepo) Create(ctx context.Context, tpl *domain.Template) error {
	now := time.Now()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	_, err := r.db.Exec(ctx,
		`INSERT INTO templates (id, name, template_content, company_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		tpl.ID, tpl.Name, tpl.TemplateContent, nullable(tpl.CompanyID), tpl.CreatedAt, tpl.UpdatedAt,
	)
	return err
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	return scanTemplate(r.db.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
}

// ListByCompany returns the company's templates plus the shared ones with no company.
func (r *templateRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE company_id IS NULL`
	var args []interface{}
	if companyID != "" {
		query += ` OR company_id = $1`
		args = append(args, companyID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []domain.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (r *templateRepo) Update(ctx context.Context, tpl *domain.Template) error {
	tpl.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx,
		`UPDATE templates SET name = $2, template_content = $3, updated_at = $4 WHERE id = $1`,
		tpl.ID, tpl.Name, tpl.TemplateContent, tpl.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
