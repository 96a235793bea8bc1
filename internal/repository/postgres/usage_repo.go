package postgres

import (
	"context"
	"encoding/json"
	"time"

	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/audit"

	"github.com/jackc/pgx/v5/pgxpool"
)

type usageRepo struct {
	db *pgxpool.Pool
}

func NewUsageRepository(db *pgxpool.Pool) domain.UsageRepository {
	return &usageRepo{db: db}
}

func (r *usageRepo) Record(ctx context.Context, rec domain.UsageRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO generation_usage (user_id, company_id, model, purpose, prompt_tokens, completion_tokens, total_tokens, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.UserID, nullable(rec.CompanyID), rec.Model, rec.Purpose,
		rec.Usage.PromptTokens, rec.Usage.CompletionTokens, rec.Usage.TotalTokens, rec.CreatedAt,
	)
	return err
}

// NewAuditPersister returns an audit.PersistFunc writing events to audit_events.
func NewAuditPersister(db *pgxpool.Pool) audit.PersistFunc {
	return func(ctx context.Context, event audit.Event) error {
		details, err := json.Marshal(event.Details)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx, `
			INSERT INTO audit_events (event_type, level, user_id, company_id, request_id, details, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			string(event.Event), event.Level, nullable(event.UserID), nullable(event.CompanyID),
			nullable(event.RequestID), string(details), event.Timestamp,
		)
		return err
	}
}
