package repository

import "errors"

var (
	// ErrNotFound is returned when a reference record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrScheduleNotFound is returned when no schedule matches a flight number
	ErrScheduleNotFound = errors.New("flight schedule not found")
)

// Rejection kinds reported by the persistence boundary
const (
	RejectionValidation = "validation"
	RejectionConflict   = "conflict"
)

// RejectionError is a structured refusal from the persistence boundary.
// Message is meant to be shown to the user as is.
type RejectionError struct {
	Kind    string
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}
