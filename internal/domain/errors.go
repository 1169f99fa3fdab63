package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternalError     = errors.New("internal error")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// Validation constants
const (
	MaxLoanNameLength        = 200
	MaxTransactionNameLength = 255
)
