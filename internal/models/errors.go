package models

import "fmt"

// ErrorKind classifies a failure for translation to an HTTP status at the
// operation boundary.
type ErrorKind int

const (
	// KindValidation is malformed or missing caller input. Reported as a
	// client error, never retried internally.
	KindValidation ErrorKind = iota
	// KindStore is an underlying persistence failure. Reported as a server
	// error, never silently swallowed.
	KindStore
)

// AppError carries a kind plus a human-readable message. Store failures
// wrap the driver error for logging; the wrapped error is not sent to
// clients.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Invalid builds a validation error from a format string.
func Invalid(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// StoreFailure wraps a persistence error with an operation description.
func StoreFailure(msg string, err error) *AppError {
	return &AppError{Kind: KindStore, Message: msg, Err: err}
}
