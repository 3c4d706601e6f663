package workshop

import (
	"errors"
	"fmt"

	"github.com/fixhub-io/fixhub-ce/internal/repository"
)

// ErrNotFound marks a referenced ticket, part, time-slot or worker as absent.
// repository.ErrNotFound is re-exported so callers only deal with this
// package's error surface.
var ErrNotFound = repository.ErrNotFound

// ValidationError reports missing or invalid required fields. It is detected
// before any write and causes no state change.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a time-slot that overlaps an existing booking.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// PersistenceError wraps an underlying storage failure. When it surfaces
// after a partial write the caller must treat the aggregate state as
// unknown and re-fetch.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a booking conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func persistErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
