package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrBankAccountNotFound = errors.New("bank account not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrTypeMismatch        = errors.New("category type does not match transaction type")
)

// ErrInUse is returned when a reference-data row cannot be deleted because
// transactions still point to it. Count carries the number of blockers.
type ErrInUse struct {
	Count int64
}

func (e *ErrInUse) Error() string {
	return "resource is in use"
}

// Validation constants
const (
	MaxNameLength = 255
)
