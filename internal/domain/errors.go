package domain

import "errors"

// Error classes shared by services and handlers
var (
	ErrUnauthenticated = errors.New("unauthenticated")   // Missing, invalid or expired token
	ErrForbidden       = errors.New("forbidden")         // Authenticated but role not permitted
	ErrNotFound        = errors.New("not found")         // Referenced entity absent
	ErrValidation      = errors.New("validation failed") // Malformed input
	ErrConflict        = errors.New("conflict")          // Unique constraint would be violated
)
