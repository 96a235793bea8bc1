package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleCandidate  Role = "CANDIDATE"
)

// DefaultAllowedDocs applies to users created outside any company.
const DefaultAllowedDocs = 5

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin, RoleCandidate:
		return true
	}
	return false
}

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	CompanyID   string    `json:"company_id,omitempty"`
	CreatedDocs int       `json:"created_docs"`
	AllowedDocs int       `json:"allowed_docs"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CanGenerate reports whether the user has generation allowance left.
// A counter above the allowance counts as exhausted.
func (u *User) CanGenerate() bool {
	return u.CreatedDocs < u.AllowedDocs
}

// Session returns the identity view of u used for authorization.
func (u *User) Session() *Session {
	return &Session{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CompanyID: u.CompanyID,
	}
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, companyID string) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	// Relink moves a pre-provisioned user row onto the subject of its first sign-in.
	Relink(ctx context.Context, oldID, newID string) error
	// IncrementGenerations adds one to created_docs only while it is below allowed_docs
	// and returns the new value, or ErrQuotaExhausted when no row qualified.
	IncrementGenerations(ctx context.Context, id string) (int, error)
	// DecrementGenerations gives back a slot taken by IncrementGenerations.
	DecrementGenerations(ctx context.Context, id string) error
}

// Identity is what a verified session token says about its bearer.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"omitempty,valid_name,max=120"`
	Role        Role   `json:"role" validate:"required,oneof=USER ADMIN SUPERADMIN CANDIDATE"`
	CompanyID   string `json:"company_id" validate:"omitempty,uuid"`
	AllowedDocs *int   `json:"allowed_docs" validate:"omitempty,min=0"`
}

type EditUserRequest struct {
	Name        *string `json:"name" validate:"omitempty,valid_name,max=120"`
	Role        *Role   `json:"role" validate:"omitempty,oneof=USER ADMIN SUPERADMIN CANDIDATE"`
	CompanyID   *string `json:"company_id" validate:"omitempty,uuid"`
	AllowedDocs *int    `json:"allowed_docs" validate:"omitempty,min=0"`
}

type AuthUsecase interface {
	// SyncUser upserts the user named by a verified token at sign-in.
	SyncUser(ctx context.Context, identity Identity) (*User, error)
	// ResolveSession returns the cached session for userID, loading it on a miss.
	ResolveSession(ctx context.Context, userID string) (*Session, error)
	GetCurrentUser(ctx context.Context, actor *Session) (*User, error)
}

type UserUsecase interface {
	ListUsers(ctx context.Context, actor *Session, companyID string) ([]User, error)
	CreateUser(ctx context.Context, actor *Session, req CreateUserRequest) (*User, error)
	EditUser(ctx context.Context, actor *Session, userID string, req EditUserRequest) (*User, error)
	DeleteUser(ctx context.Context, actor *Session, userID string) error
}
