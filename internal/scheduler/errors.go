package scheduler

import (
	"errors"
	"fmt"
)

// ErrInput signals malformed or missing required data in the loaded inputs.
var ErrInput = errors.New("scheduler: input error")

// ErrFixedPinConflict signals a course's fixed pins are pairwise or globally
// infeasible against already-pinned placements.
var ErrFixedPinConflict = errors.New("scheduler: fixed pin conflict")

// ErrInfeasible signals the search engine exhausted the space without
// placing every required hour.
var ErrInfeasible = errors.New("scheduler: infeasible")

// ErrCancelled signals cooperative cancellation of a run in progress.
var ErrCancelled = errors.New("scheduler: cancelled")

// FixedPinConflictError names the offending course and pin.
type FixedPinConflictError struct {
	CourseID string
	Reason   string
}

func (e *FixedPinConflictError) Error() string {
	return fmt.Sprintf("fixed pin conflict for course %s: %s", e.CourseID, e.Reason)
}

func (e *FixedPinConflictError) Unwrap() error { return ErrFixedPinConflict }

// NoInstructorCandidatesWarning is never an abort condition; the driver logs
// it and excludes the course from the run, reporting it in RunResult.Warnings.
type NoInstructorCandidatesWarning struct {
	CourseID string
}

func (e *NoInstructorCandidatesWarning) Error() string {
	return fmt.Sprintf("course %s has no instructor candidates", e.CourseID)
}

// InputError wraps a descriptive message with ErrInput.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }
func (e *InputError) Unwrap() error { return ErrInput }
