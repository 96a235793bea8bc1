package usecase

import (
	"context"
	"errors"
	"time"

	"cv-generator-backend/internal/access"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/audit"
	"cv-generator-backend/pkg/llm"
	"cv-generator-backend/pkg/logger"
)

// generationTemperature keeps CV rewrites close to the source text.
const generationTemperature = 0.2

// authorize runs the access check and audits every denial.
func authorize(ctx context.Context, log *audit.Logger, actor *domain.Session, action access.Action, res access.Resource) error {
	err := access.Authorize(actor, action, res)
	if err != nil && apperror.Is(err, apperror.KindForbidden) {
		log.LogDenied(ctx, actor.UserID, actor.CompanyID, string(action), err.Error(), map[string]interface{}{
			"resource_owner":  res.OwnerID,
			"resource_tenant": res.CompanyID,
		})
	}
	return err
}

// translate turns a repository error into an AppError.
func translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(notFoundMsg)
	}
	return apperror.Internal(err)
}

// generationError keeps configuration errors intact and reports anything else
// from the model backend as an upstream failure.
func generationError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Upstream("The generation service failed, please try again", err)
}

// recordUsage logs token counts and stores them off the request path. It never
// fails the caller.
func recordUsage(ctx context.Context, log *audit.Logger, usage domain.UsageRepository, actor *domain.Session, purpose string, c *llm.Completion) {
	log.LogTokenUsage(ctx, actor.UserID, c.Model, c.Usage.PromptTokens, c.Usage.CompletionTokens, c.Usage.TotalTokens)
	if usage == nil {
		return
	}

	rec := domain.UsageRecord{
		UserID:    actor.UserID,
		CompanyID: actor.CompanyID,
		Model:     c.Model,
		Purpose:   purpose,
		Usage: domain.TokenUsage{
			PromptTokens:     c.Usage.PromptTokens,
			CompletionTokens: c.Usage.CompletionTokens,
			TotalTokens:      c.Usage.TotalTokens,
		},
		CreatedAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := usage.Record(ctx, rec); err != nil {
			logger.Log.Warn("Failed to record token usage", "user_id", rec.UserID, "error", err)
		}
	}()
}

// commitGeneration takes one generation slot and stores doc. Exhaustion found
// by the conditional increment yields LimitReached without storing anything.
// A failed store gives the slot back.
func commitGeneration(ctx context.Context, log *audit.Logger, users domain.UserRepository, docs domain.DocumentRepository, user *domain.User, doc *domain.GeneratedDoc) (*domain.GenerateResult, error) {
	createdDocs, err := users.IncrementGenerations(ctx, user.ID)
	reserved := err == nil
	switch {
	case errors.Is(err, domain.ErrQuotaExhausted):
		log.Log(ctx, audit.Event{
			Event:     audit.EventQuotaExhausted,
			UserID:    user.ID,
			CompanyID: user.CompanyID,
			Details:   map[string]interface{}{"allowed_docs": user.AllowedDocs, "stage": "commit"},
		})
		return &domain.GenerateResult{CreatedDocs: user.AllowedDocs, LimitReached: true}, nil
	case err != nil:
		logger.Log.Error("Failed to increment generation counter", "user_id", user.ID, "error", err)
		createdDocs = user.CreatedDocs + 1
	}

	if err := docs.Create(ctx, doc); err != nil {
		logger.Log.Error("Failed to store generated document", "user_id", user.ID, "error", err)
		if reserved {
			if relErr := users.DecrementGenerations(ctx, user.ID); relErr != nil {
				logger.Log.Error("Failed to release generation slot", "user_id", user.ID, "error", relErr)
			}
		}
		return nil, apperror.Internal(err)
	}

	return &domain.GenerateResult{
		Content:     doc.Content,
		Document:    doc,
		CreatedDocs: createdDocs,
	}, nil
}

// limitReached reports the pre-check outcome for user, auditing exhaustion.
func limitReached(ctx context.Context, log *audit.Logger, user *domain.User) (*domain.GenerateResult, bool) {
	if user.CanGenerate() {
		return nil, false
	}
	log.Log(ctx, audit.Event{
		Event:     audit.EventQuotaExhausted,
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Details:   map[string]interface{}{"created_docs": user.CreatedDocs, "allowed_docs": user.AllowedDocs, "stage": "precheck"},
	})
	return &domain.GenerateResult{CreatedDocs: user.CreatedDocs, LimitReached: true}, true
}
