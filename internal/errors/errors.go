package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vytor/chessfeed/internal/engine"
)

// Error codes
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeIllegalMove    = "ILLEGAL_MOVE"
	ErrCodeMalformedInput = "MALFORMED_NOTATION"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "ILLEGAL_MOVE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewIllegalMoveError reports a move the rules engine rejected.
func NewIllegalMoveError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeIllegalMove,
		Message: err.Error(),
		Status:  422,
		Err:     err,
	}
}

// NewMalformedNotationError reports FEN, SAN or movetext that could not be parsed.
func NewMalformedNotationError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedInput,
		Message: err.Error(),
		Status:  422,
		Err:     err,
	}
}

// FromBoard classifies an error coming out of the engine or a board. Errors
// that are neither illegal moves nor bad notation become internal errors.
func FromBoard(err error) *AppError {
	var appErr *AppError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &appErr):
		return appErr
	case stderrors.Is(err, engine.ErrMalformedNotation):
		return NewMalformedNotationError(err)
	case stderrors.Is(err, engine.ErrIllegalMove), stderrors.Is(err, engine.ErrNothingToUndo):
		return NewIllegalMoveError(err)
	default:
		return NewInternalError(err)
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
