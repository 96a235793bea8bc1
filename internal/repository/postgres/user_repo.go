package postgres

import (
	"context"
	"errors"
	"time"

	"cv-generator-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, name, role, COALESCE(company_id::text, ''), created_docs, allowed_docs, created_at, updated_at`

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CompanyID, &u.CreatedDocs, &u.AllowedDocs, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `INSERT INTO users (id, email, name, role, company_id, created_docs, allowed_docs, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Role, nullable(user.CompanyID),
		user.CreatedDocs, user.AllowedDocs, user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

// List returns every user, or only the members of companyID when it is set.
func (r *userRepo) List(ctx context.Context, companyID string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	if companyID != "" {
		query += ` WHERE company_id = $1`
		args = append(args, companyID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()
	query := `UPDATE users SET email = $2, name = $3, role = $4, company_id = $5, allowed_docs = $6, updated_at = $7
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Role, nullable(user.CompanyID), user.AllowedDocs, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the user with their documents and applications. Applications
// go first because they pin the documents they were submitted with.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM job_applications WHERE candidate_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *userRepo) Relink(ctx context.Context, oldID, newID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET id = $2, updated_at = NOW() WHERE id = $1`, oldID, newID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementGenerations is the only path that raises created_docs. The WHERE
// clause makes the check and the increment one statement, so concurrent
// requests can never push the counter past allowed_docs.
func (r *userRepo) IncrementGenerations(ctx context.Context, id string) (int, error) {
	query := `UPDATE users SET created_docs = created_docs + 1, updated_at = NOW()
              WHERE id = $1 AND created_docs < allowed_docs
              RETURNING created_docs`
	var createdDocs int
	err := r.db.QueryRow(ctx, query, id).Scan(&createdDocs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrQuotaExhausted
		}
		return 0, err
	}
	return createdDocs, nil
}

func (r *userRepo) DecrementGenerations(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET created_docs = created_docs - 1, updated_at = NOW() WHERE id = $1 AND created_docs > 0`, id)
	return err
}
