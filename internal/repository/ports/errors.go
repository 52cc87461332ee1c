package ports

import "errors"

var (
	// ErrDuplicateKey is returned when an insert violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrStateConflict is returned when a guarded update finds the row no longer
	// in the expected state.
	ErrStateConflict = errors.New("state conflict")
)
