package commands

import (
	"errors"
	"fmt"
	"time"

	"mailroom/internal/pkg/errs"
	"mailroom/internal/pkg/guard"
)

var ErrReconcileNumbersCommandIsNotConstructed = errors.New(
	"ReconcileNumbersCommand must be created via NewReconcileNumbersCommand constructor",
)

// ReconcileNumbersCommand asks to release numbers that have been reserved for
// longer than gracePeriod without a live package holding them.
type ReconcileNumbersCommand struct { //nolint:recvcheck //using for validation
	gracePeriod time.Duration

	guard guard.ConstructorGuard
}

func NewReconcileNumbersCommand(gracePeriod time.Duration) (ReconcileNumbersCommand, error) {
	if gracePeriod <= 0 {
		return ReconcileNumbersCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"grace period",
			fmt.Errorf("%s is not greater than 0", gracePeriod),
		)
	}
	return ReconcileNumbersCommand{gracePeriod: gracePeriod, guard: guard.NewConstructorGuard()}, nil
}

func (c ReconcileNumbersCommand) Validate() error {
	return c.guard.Validate(ErrReconcileNumbersCommandIsNotConstructed)
}

func (c ReconcileNumbersCommand) GracePeriod() time.Duration {
	return c.gracePeriod
}
