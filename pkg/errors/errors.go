package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT and tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrTokenIsNotAccess     = fmt.Errorf("token is not an access token")

	// Authorization header
	ErrEmptyAuthHeader   = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader = fmt.Errorf("invalid authorization header format")

	// Context
	ErrUserIDNotFoundInContext = fmt.Errorf("user id not found in request context")

	// Workflow error kinds. Every domain error returned by a service unwraps to one of these.
	ErrNotFound          = fmt.Errorf("record not found")
	ErrInvalidTransition = fmt.Errorf("invalid status transition")
	ErrUnauthorized      = fmt.Errorf("actor is not allowed to perform this action")
	ErrConflict          = fmt.Errorf("conflict")
	ErrValidation        = fmt.Errorf("validation failed")
)

// Kind names returned by KindOf. They are stable and safe to expose to callers.
const (
	KindNotFound          = "not_found"
	KindInvalidTransition = "invalid_transition"
	KindUnauthorized      = "unauthorized"
	KindConflict          = "conflict"
	KindValidation        = "validation"
	KindInfrastructure    = "infrastructure"
)

// DomainError carries a human readable message on top of one of the kind sentinels.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Kind }

func newDomainError(kind error, format string, args ...interface{}) error {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) error {
	return newDomainError(ErrNotFound, format, args...)
}

func NewInvalidTransitionError(format string, args ...interface{}) error {
	return newDomainError(ErrInvalidTransition, format, args...)
}

func NewUnauthorizedError(format string, args ...interface{}) error {
	return newDomainError(ErrUnauthorized, format, args...)
}

func NewConflictError(format string, args ...interface{}) error {
	return newDomainError(ErrConflict, format, args...)
}

// InvalidInputError is malformed caller input.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func (e *InvalidInputError) Unwrap() error { return ErrValidation }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// StoreError is an infrastructure failure of the record store. It never unwraps
// to a domain kind, so callers can tell "the data said no" from "the disk said no".
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(op, collection string, err error) error {
	return &StoreError{Op: op, Collection: collection, Err: err}
}

// KindOf classifies err into one of the stable kind names.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindInfrastructure
	}
}

// HttpError is the shape the HTTP layer renders.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}
