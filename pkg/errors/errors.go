package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// Scheduler-specific taxonomy. Status codes follow SPEC_FULL.md's error
	// handling design: InputError -> 400, FixedPinConflict -> 409,
	// NoInstructorCandidates -> 422 (warning, not abort), Infeasible -> 422,
	// Cancelled -> 499, BadTimeFormat -> 400, Conflict -> 409.
	ErrSchedulerInput          = New("SCHEDULER_INPUT_ERROR", http.StatusBadRequest, "invalid scheduling input")
	ErrSchedulerFixedPin       = New("FIXED_PIN_CONFLICT", http.StatusConflict, "fixed pin conflict")
	ErrSchedulerNoInstructors  = New("NO_INSTRUCTOR_CANDIDATES", http.StatusUnprocessableEntity, "course has no instructor candidates")
	ErrSchedulerInfeasible     = New("INFEASIBLE", http.StatusUnprocessableEntity, "no feasible schedule exists for the given inputs")
	ErrSchedulerCancelled      = New("CANCELLED", 499, "scheduling run was cancelled")
	ErrEditorBadTimeFormat     = New("BAD_TIME_FORMAT", http.StatusBadRequest, "malformed time interval")
	ErrEditorConflict          = New("EDITOR_CONFLICT", http.StatusConflict, "move violates a hard constraint")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
