package services

import (
	"errors"
	"fmt"

	"hotel-frontdesk/store"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrNotConfirmed is returned when a destructive action is attempted without operator confirmation.
	ErrNotConfirmed = errors.New("confirmation required")
)

// ValidationError rejects input before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError wraps a storage failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConflictError reports a lost race or a state that forbids the action (room taken, already checked out).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func conflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// persistErr classifies a store error. Typed service errors pass through untouched.
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var ce *ConflictError
	var pe *PersistenceError
	switch {
	case errors.As(err, &ve), errors.As(err, &ce), errors.As(err, &pe):
		return err
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotConfirmed):
		return err
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, store.ErrDuplicate):
		return &ConflictError{Message: fmt.Sprintf("%s: record already exists", op)}
	case errors.Is(err, store.ErrRoomTaken):
		return &ConflictError{Message: fmt.Sprintf("%s: room already booked", op)}
	}
	return &PersistenceError{Op: op, Err: err}
}

// Confirmer is the synchronous yes/no gate in front of check-out and delete.
type Confirmer func(prompt string) bool

// Confirmed always answers yes. Used by HTTP handlers after the client sent confirm=true,
// and by the scheduler.
func Confirmed(string) bool { return true }

// Declined always answers no.
func Declined(string) bool { return false }
