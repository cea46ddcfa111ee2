package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrDuplicateID is returned when an explicit id collides with an entity already in the ledger.
var ErrDuplicateID = fmt.Errorf("%w: id already in use", ErrDuplicate)

// ErrAlreadyRegistered is returned when a transaction with the same id is already in the ledger.
var ErrAlreadyRegistered = fmt.Errorf("%w: transaction already registered", ErrDuplicate)

// ErrOrphanTransaction is returned when a transaction is registered before any
// ledger account holds one of its movements.
var ErrOrphanTransaction = errors.New("transaction has no movement in a ledger account")

// ErrInvalidMovement covers movement construction and mutation failures
// (negative amount, missing transaction or account, rejected registration).
var ErrInvalidMovement = fmt.Errorf("%w: invalid movement", ErrValidation)

// ErrNullField is returned when a mandatory field is missing.
var ErrNullField = fmt.Errorf("%w: mandatory field missing", ErrValidation)

// ErrNoAccount is returned by statistics when no account was supplied.
var ErrNoAccount = errors.New("no account supplied")

// ErrNoMovements is returned by statistics when the filtered movement set is empty.
var ErrNoMovements = errors.New("no matching movements")

// ErrIO wraps storage failures of the import/export collaborators.
var ErrIO = errors.New("i/o failure")

// ErrParse wraps malformed records found while importing.
var ErrParse = errors.New("malformed record")

// AppError carries a status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
