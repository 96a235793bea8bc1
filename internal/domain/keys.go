package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyCompanyID CtxKey = "CompanyID"
	KeySession   CtxKey = "Session"
	KeyIdentity  CtxKey = "Identity"
	KeyRequestID CtxKey = "RequestID"
)
