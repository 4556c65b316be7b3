package pkgnumber

import (
	"errors"
	"fmt"
)

// ErrPoolExhausted is the sentinel behind PoolExhaustedError.
var ErrPoolExhausted = errors.New("package number pool exhausted")

// PoolExhaustedError means every number of a mailroom is held by a package
// that is still on the shelf. Staff must resolve waiting packages before more
// can be registered.
type PoolExhaustedError struct {
	MailroomID string
	Capacity   int
}

func NewPoolExhaustedError(mailroomID string) *PoolExhaustedError {
	return &PoolExhaustedError{MailroomID: mailroomID, Capacity: Capacity}
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("%s: mailroom %s already has %d packages waiting", ErrPoolExhausted, e.MailroomID, e.Capacity)
}

func (e *PoolExhaustedError) Unwrap() error {
	return ErrPoolExhausted
}
