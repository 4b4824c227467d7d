/*
Package shared holds what the cart, order and billing subdomains have in common:
sentinel errors, the stack-carrying DomainError, and the domain event bus.

Error design:
 1. Sentinels support errors.Is() classification
 2. DomainError captures the stack at construction and formats it lazily
 3. No transport concepts (HTTP status codes) in this layer
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrNotFound resource not found
	ErrNotFound = errors.New("not found")

	// ErrConflict resource conflict
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptState persisted data exists but cannot be decoded into a valid collection
	ErrCorruptState = errors.New("corrupt persisted state")

	// ErrPersistence a state change could not be written to the durable store
	ErrPersistence = errors.New("persistence failed")
)

// DomainError carries business context and the stack of the point where it was raised.
type DomainError struct {
	// Err sentinel used for errors.Is()
	Err error

	// Cause optional underlying error (store failure, decode failure)
	Cause error

	// Entity the entity involved ("cart", "order", "line_item")
	Entity string

	// Message human readable description
	Message string

	// Field optional field name for validation errors
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *DomainError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// Stack formats the captured frames on demand.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack captures the current call stack.
// skip is usually 3: runtime.Callers, CaptureStack, NewXxxError.
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders frames as "file:line function", dropping runtime frames, at most 10.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewConflictError reports a write that clashes with existing state
func NewConflictError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewCorruptStateError reports a persisted collection under key that failed to decode or validate.
func NewCorruptStateError(entity, key string, cause error) error {
	return &DomainError{
		Err:     ErrCorruptState,
		Cause:   cause,
		Entity:  entity,
		Message: "corrupt " + entity + " state under key " + key,
		stack:   CaptureStack(3),
	}
}

// NewPersistenceError reports a failed write of entity's collection.
func NewPersistenceError(entity string, cause error) error {
	return &DomainError{
		Err:     ErrPersistence,
		Cause:   cause,
		Entity:  entity,
		Message: "failed to persist " + entity,
		stack:   CaptureStack(3),
	}
}

// Stacker errors able to report the stack of their origin
type Stacker interface {
	Stack() []string
}
