package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/logger"
)

type authUsecase struct {
	userRepo domain.UserRepository
	cache    domain.SessionCache
}

func NewAuthUsecase(userRepo domain.UserRepository, cache domain.SessionCache) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo, cache: cache}
}

// SyncUser makes sure the bearer of a verified token has a user row.
// It is idempotent: a returning user is found by ID, a user pre-provisioned by
// an admin is found by email and re-linked to the token subject, and anyone
// else is created as a USER with the default allowance.
func (u *authUsecase) SyncUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.Subject == "" || identity.Email == "" {
		return nil, apperror.Unauthorized("Invalid session token")
	}

	// Step 1: returning user
	existing, err := u.userRepo.GetByID(ctx, identity.Subject)
	if err == nil {
		if u.refreshProfile(existing, identity) {
			if err := u.userRepo.Update(ctx, existing); err != nil {
				return nil, translate(err, "User not found")
			}
			u.cache.Invalidate(ctx, existing.ID)
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	// Step 2: pre-provisioned by email
	byEmail, err := u.userRepo.GetByEmail(ctx, identity.Email)
	if err == nil {
		oldID := byEmail.ID
		if err := u.userRepo.Relink(ctx, oldID, identity.Subject); err != nil {
			return nil, translate(err, "User not found")
		}
		u.cache.Invalidate(ctx, oldID)
		byEmail.ID = identity.Subject
		if u.refreshProfile(byEmail, identity) {
			if err := u.userRepo.Update(ctx, byEmail); err != nil {
				return nil, translate(err, "User not found")
			}
		}
		logger.Log.Info("Re-linked pre-provisioned user", "user_id", byEmail.ID)
		return byEmail, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	// Step 3: new user
	now := time.Now()
	user := &domain.User{
		ID:          identity.Subject,
		Email:       identity.Email,
		Name:        strings.TrimSpace(identity.Name),
		Role:        domain.RoleUser,
		AllowedDocs: domain.DefaultAllowedDocs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("User with this email already exists")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) refreshProfile(user *domain.User, identity domain.Identity) bool {
	changed := false
	if !strings.EqualFold(user.Email, identity.Email) {
		user.Email = identity.Email
		changed = true
	}
	if name := strings.TrimSpace(identity.Name); name != "" && user.Name == "" {
		user.Name = name
		changed = true
	}
	return changed
}

func (u *authUsecase) ResolveSession(ctx context.Context, userID string) (*domain.Session, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("Authentication required")
	}
	if s, ok := u.cache.Get(ctx, userID); ok {
		return s, nil
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User is not registered")
		}
		return nil, apperror.Internal(err)
	}

	s := user.Session()
	u.cache.Set(ctx, s)
	return s, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, actor *domain.Session) (*domain.User, error) {
	if actor == nil || actor.UserID == "" {
		return nil, apperror.Unauthorized("Authentication required")
	}
	user, err := u.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, translate(err, "User not found")
	}
	return user, nil
}
