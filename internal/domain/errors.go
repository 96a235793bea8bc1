package domain

import "errors"

// Sentinel errors returned by repositories. Usecases translate them into apperror values.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrQuotaExhausted = errors.New("quota exhausted")
	ErrDuplicate      = errors.New("duplicate resource")
	ErrInUse          = errors.New("resource is referenced")
)
