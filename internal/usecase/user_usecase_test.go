package usecase_test

import (
	"context"
	"testing"
	"time"

	"cv-generator-backend/internal/domain"
	"cv-generator-backend/internal/session"
	"cv-generator-backend/internal/usecase"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserUsecase() (*MockUserRepo, *MockCompanyRepo, domain.SessionCache, domain.UserUsecase) {
	users := new(MockUserRepo)
	companies := new(MockCompanyRepo)
	cache := session.NewMemoryCache(16, time.Minute)
	return users, companies, cache, usecase.NewUserUsecase(users, companies, cache, validation.New())
}

func companyAdmin() *domain.Session {
	return &domain.Session{UserID: "admin1", Role: domain.RoleAdmin, CompanyID: "c1"}
}

func TestListUsersDefaultsToOwnCompany(t *testing.T) {
	users, _, _, uc := newUserUsecase()
	ctx := context.Background()
	users.On("List", ctx, "c1").Return([]domain.User{{ID: "u1"}}, nil)

	list, err := uc.ListUsers(ctx, companyAdmin(), "")

	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListUsersOtherCompanyForbidden(t *testing.T) {
	_, _, _, uc := newUserUsecase()

	_, err := uc.ListUsers(context.Background(), companyAdmin(), "c2")

	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "403 Forbidden: ")
}

func TestListUsersSuperAdminSeesAll(t *testing.T) {
	users, _, _, uc := newUserUsecase()
	ctx := context.Background()
	users.On("List", ctx, "").Return([]domain.User{{ID: "u1"}, {ID: "u2"}}, nil)

	list, err := uc.ListUsers(ctx, &domain.Session{UserID: "root", Role: domain.RoleSuperAdmin}, "")

	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateUserInheritsCompanyAllowance(t *testing.T) {
	users, companies, _, uc := newUserUsecase()
	ctx := context.Background()
	companies.On("GetByID", ctx, "c1").Return(&domain.Company{ID: "c1", AllowedDocsPerUsers: 12}, nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.CompanyID == "c1" && u.AllowedDocs == 12 && u.Email == "new@acme.com"
	})).Return(nil)

	user, err := uc.CreateUser(ctx, companyAdmin(), domain.CreateUserRequest{
		Email: " New@Acme.com ", Name: "New Recruiter", Role: domain.RoleUser,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, user.CreatedDocs)
	users.AssertExpectations(t)
}

func TestAdminCannotGrantSuperAdmin(t *testing.T) {
	users, _, _, uc := newUserUsecase()

	_, err := uc.CreateUser(context.Background(), companyAdmin(), domain.CreateUserRequest{
		Email: "boss@acme.com", Role: domain.RoleSuperAdmin,
	})

	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	users, _, _, uc := newUserUsecase()
	ctx := context.Background()
	users.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicate)

	_, err := uc.CreateUser(ctx, &domain.Session{UserID: "root", Role: domain.RoleSuperAdmin}, domain.CreateUserRequest{
		Email: "dup@acme.com", Role: domain.RoleUser,
	})

	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestEditUserInvalidatesSession(t *testing.T) {
	users, _, cache, uc := newUserUsecase()
	ctx := context.Background()
	target := &domain.User{ID: "u1", Role: domain.RoleUser, CompanyID: "c1", AllowedDocs: 5}
	cache.Set(ctx, target.Session())
	users.On("GetByID", ctx, "u1").Return(target, nil)
	users.On("Update", ctx, mock.Anything).Return(nil)

	allowed := 20
	role := domain.RoleAdmin
	user, err := uc.EditUser(ctx, companyAdmin(), "u1", domain.EditUserRequest{AllowedDocs: &allowed, Role: &role})

	require.NoError(t, err)
	assert.Equal(t, 20, user.AllowedDocs)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	_, cached := cache.Get(ctx, "u1")
	assert.False(t, cached)
}

func TestAdminCannotEditSuperAdmin(t *testing.T) {
	users, _, _, uc := newUserUsecase()
	ctx := context.Background()
	users.On("GetByID", ctx, "root").Return(&domain.User{ID: "root", Role: domain.RoleSuperAdmin, CompanyID: "c1"}, nil)

	name := "Renamed"
	_, err := uc.EditUser(ctx, companyAdmin(), "root", domain.EditUserRequest{Name: &name})

	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestDeleteUser(t *testing.T) {
	users, _, _, uc := newUserUsecase()
	ctx := context.Background()
	users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Role: domain.RoleUser, CompanyID: "c1"}, nil)
	users.On("Delete", ctx, "u1").Return(nil)

	require.NoError(t, uc.DeleteUser(ctx, companyAdmin(), "u1"))
	users.AssertCalled(t, "Delete", ctx, "u1")
}

func TestDeleteSelfRejected(t *testing.T) {
	users, _, _, uc := newUserUsecase()
	ctx := context.Background()
	users.On("GetByID", ctx, "admin1").Return(&domain.User{ID: "admin1", Role: domain.RoleAdmin, CompanyID: "c1"}, nil)

	err := uc.DeleteUser(ctx, companyAdmin(), "admin1")

	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateUserRejectsInvalidEmail(t *testing.T) {
	users, _, _, uc := newUserUsecase()

	_, err := uc.CreateUser(context.Background(), companyAdmin(), domain.CreateUserRequest{
		Email: "  not-an-email ", Role: domain.RoleUser,
	})

	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminCannotEditUserOfAnotherCompany(t *testing.T) {
	users, _, _, uc := newUserUsecase()
	ctx := context.Background()
	users.On("GetByID", ctx, "u2").Return(&domain.User{ID: "u2", Role: domain.RoleUser, CompanyID: "c2", AllowedDocs: 5}, nil)

	allowed := 50
	_, err := uc.EditUser(ctx, companyAdmin(), "u2", domain.EditUserRequest{AllowedDocs: &allowed})

	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAdminCannotDeleteUserOfAnotherCompany(t *testing.T) {
	users, _, _, uc := newUserUsecase()
	ctx := context.Background()
	users.On("GetByID", ctx, "u2").Return(&domain.User{ID: "u2", Role: domain.RoleUser, CompanyID: "c2"}, nil)

	err := uc.DeleteUser(ctx, companyAdmin(), "u2")

	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUserStillReferenced(t *testing.T) {
	users, _, _, uc := newUserUsecase()
	ctx := context.Background()
	users.On("GetByID", ctx, "cand1").Return(&domain.User{ID: "cand1", Role: domain.RoleCandidate}, nil)
	users.On("Delete", ctx, "cand1").Return(domain.ErrInUse)

	err := uc.DeleteUser(ctx, &domain.Session{UserID: "root", Role: domain.RoleSuperAdmin}, "cand1")

	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}
