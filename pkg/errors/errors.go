package errors

import (
	"errors"
	"fmt"

	"scanorder/domain/shared"
)

// ErrorCode error code carried in API responses
type ErrorCode string

const (
	// generic codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// business codes
	CodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	CodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	CodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
)

// AppError application level error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an error with no cause
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a cause
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func SessionNotFound() *AppError {
	return New(CodeSessionNotFound, "session not found")
}

func StoreUnavailable(err error) *AppError {
	return Wrap(err, CodeStoreUnavailable, "store unavailable")
}

// Is reports whether err is an AppError with the given code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError maps domain sentinels to application codes.
// Classification goes through errors.Is, never through message text.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var domainErr *shared.DomainError
	field := ""
	msg := err.Error()
	if errors.As(err, &domainErr) {
		field = domainErr.Field
		msg = domainErr.Message
	}

	var out *AppError
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		out = Wrap(err, CodeValidation, msg)
	case errors.Is(err, shared.ErrNotFound):
		out = Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrConflict):
		out = Wrap(err, CodeConflict, msg)
	case errors.Is(err, shared.ErrPersistence):
		out = Wrap(err, CodePersistenceFailed, msg)
	default:
		out = Wrap(err, CodeInternal, "internal server error")
	}
	out.Field = field
	return out
}
