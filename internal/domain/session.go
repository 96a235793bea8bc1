package domain

import "context"

// Session is the authenticated caller of a request.
type Session struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
}

// SessionCache holds recently resolved sessions keyed by user ID.
type SessionCache interface {
	Get(ctx context.Context, userID string) (*Session, bool)
	Set(ctx context.Context, session *Session)
	Invalidate(ctx context.Context, userID string)
}
