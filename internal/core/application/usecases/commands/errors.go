package commands

import (
	"errors"
	"fmt"
)

var (
	// ErrResidentNotFound is the sentinel behind ResidentNotFoundError.
	ErrResidentNotFound = errors.New("resident not found")
	// ErrPersistenceFailure is the sentinel behind PersistenceError.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// ResidentNotFoundError means no resident of the mailroom carries the
// identifier staff entered. Nothing was reserved or persisted.
type ResidentNotFoundError struct {
	MailroomID string
	StudentID  string
}

func NewResidentNotFoundError(mailroomID, studentID string) *ResidentNotFoundError {
	return &ResidentNotFoundError{MailroomID: mailroomID, StudentID: studentID}
}

func (e *ResidentNotFoundError) Error() string {
	return fmt.Sprintf("%s: no resident with student id %q in mailroom %s", ErrResidentNotFound, e.StudentID, e.MailroomID)
}

func (e *ResidentNotFoundError) Unwrap() error {
	return ErrResidentNotFound
}

// PersistenceError wraps a storage failure. Both ErrPersistenceFailure and
// the cause match errors.Is.
type PersistenceError struct {
	Op    string
	Cause error
}

func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistenceFailure, e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistenceFailure, e.Cause}
}
