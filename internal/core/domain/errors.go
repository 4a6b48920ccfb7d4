package domain

import "errors"

// Domain errors. Handlers map these to an HTTP status plus a stable machine
// code; anything unmatched degrades to a generic 500 with no detail.
var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("token missing")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotFound           = errors.New("resource not found")
	ErrPersistence        = errors.New("storage failure")
)
