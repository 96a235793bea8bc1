package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"cv-generator-backend/internal/access"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/audit"
	"cv-generator-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type userUsecase struct {
	userRepo    domain.UserRepository
	companyRepo domain.CompanyRepository
	cache       domain.SessionCache
	validate    *validator.Validate
	audit       *audit.Logger
}

func NewUserUsecase(
	userRepo domain.UserRepository,
	companyRepo domain.CompanyRepository,
	cache domain.SessionCache,
	validate *validator.Validate,
) domain.UserUsecase {
	return &userUsecase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		cache:       cache,
		validate:    validate,
		audit:       audit.Default(),
	}
}

// ListUsers returns the users of companyID. Admins default to their own company;
// a SUPERADMIN with no filter sees everyone.
func (u *userUsecase) ListUsers(ctx context.Context, actor *domain.Session, companyID string) ([]domain.User, error) {
	if companyID == "" && actor != nil && actor.Role != domain.RoleSuperAdmin {
		companyID = actor.CompanyID
	}
	if err := authorize(ctx, u.audit, actor, access.ActionListUsers, access.Resource{CompanyID: companyID}); err != nil {
		return nil, err
	}
	users, err := u.userRepo.List(ctx, companyID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

func (u *userUsecase) CreateUser(ctx context.Context, actor *domain.Session, req domain.CreateUserRequest) (*domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	companyID := req.CompanyID
	if companyID == "" && actor != nil && actor.Role == domain.RoleAdmin {
		companyID = actor.CompanyID
	}
	if err := authorize(ctx, u.audit, actor, access.ActionCreateUser, access.Resource{CompanyID: companyID}); err != nil {
		return nil, err
	}
	if err := access.CanAssignRole(actor, req.Role); err != nil {
		return nil, err
	}

	allowed := domain.DefaultAllowedDocs
	if companyID != "" {
		company, err := u.companyRepo.GetByID(ctx, companyID)
		if err != nil {
			return nil, translate(err, "Company not found")
		}
		allowed = company.AllowedDocsPerUsers
	}
	if req.AllowedDocs != nil {
		allowed = *req.AllowedDocs
	}

	now := time.Now()
	user := &domain.User{
		ID:          uuid.NewString(),
		Email:       req.Email,
		Name:        req.Name,
		Role:        req.Role,
		CompanyID:   companyID,
		AllowedDocs: allowed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("User with this email already exists")
		}
		return nil, apperror.Internal(err)
	}

	u.logChange(ctx, actor, user.ID, "created")
	return user, nil
}

func (u *userUsecase) EditUser(ctx context.Context, actor *domain.Session, userID string, req domain.EditUserRequest) (*domain.User, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	target, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "User not found")
	}
	if err := u.checkTarget(ctx, actor, access.ActionEditUser, target); err != nil {
		return nil, err
	}

	if req.Role != nil {
		if err := access.CanAssignRole(actor, *req.Role); err != nil {
			return nil, err
		}
		target.Role = *req.Role
	}
	if req.CompanyID != nil && *req.CompanyID != target.CompanyID {
		// Moving a user is checked against the destination company as well.
		if err := authorize(ctx, u.audit, actor, access.ActionEditUser, access.Resource{CompanyID: *req.CompanyID}); err != nil {
			return nil, err
		}
		if *req.CompanyID != "" {
			if _, err := u.companyRepo.GetByID(ctx, *req.CompanyID); err != nil {
				return nil, translate(err, "Company not found")
			}
		}
		target.CompanyID = *req.CompanyID
	}
	if req.Name != nil {
		target.Name = strings.TrimSpace(*req.Name)
	}
	if req.AllowedDocs != nil {
		target.AllowedDocs = *req.AllowedDocs
	}

	if err := u.userRepo.Update(ctx, target); err != nil {
		return nil, translate(err, "User not found")
	}
	u.cache.Invalidate(ctx, target.ID)

	u.logChange(ctx, actor, target.ID, "edited")
	return target, nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, actor *domain.Session, userID string) error {
	target, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return translate(err, "User not found")
	}
	if err := u.checkTarget(ctx, actor, access.ActionDeleteUser, target); err != nil {
		return err
	}
	if actor.UserID == target.ID {
		return apperror.BadRequest("You cannot delete your own account")
	}

	if err := u.userRepo.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, domain.ErrInUse) {
			return apperror.Conflict("User still has records that reference them")
		}
		return translate(err, "User not found")
	}
	u.cache.Invalidate(ctx, target.ID)

	u.logChange(ctx, actor, target.ID, "deleted")
	return nil
}

// checkTarget authorizes action on target. Only a SUPERADMIN may touch another SUPERADMIN.
func (u *userUsecase) checkTarget(ctx context.Context, actor *domain.Session, action access.Action, target *domain.User) error {
	if err := authorize(ctx, u.audit, actor, action, access.Resource{OwnerID: target.ID, CompanyID: target.CompanyID}); err != nil {
		return err
	}
	if target.Role == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return apperror.Forbidden("only SUPERADMIN can manage a SUPERADMIN")
	}
	return nil
}

func (u *userUsecase) logChange(ctx context.Context, actor *domain.Session, targetID, change string) {
	u.audit.Log(ctx, audit.Event{
		Event:     audit.EventUserChanged,
		UserID:    actor.UserID,
		CompanyID: actor.CompanyID,
		Details:   map[string]interface{}{"target_user_id": targetID, "change": change},
	})
}
