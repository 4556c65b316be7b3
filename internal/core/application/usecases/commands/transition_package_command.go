package commands

import (
	"errors"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/pkg/guard"
)

var ErrTransitionPackageCommandIsNotConstructed = errors.New(
	"TransitionPackageCommand must be created via NewTransitionPackageCommand or NewScopedTransitionPackageCommand",
)

// TransitionPackageCommand asks to move a package to a new status.
// A scoped command also asserts which mailroom the package belongs to; a
// package of another mailroom is reported as not found.
type TransitionPackageCommand struct { //nolint:recvcheck //using for validation
	packageID  kernel.UUID
	mailroomID *kernel.UUID
	target     parcel.Status

	guard guard.ConstructorGuard
}

func NewTransitionPackageCommand(packageID kernel.UUID, target parcel.Status) (TransitionPackageCommand, error) {
	cmd := TransitionPackageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPackageID(packageID),
		cmd.setTarget(target),
	); err != nil {
		return TransitionPackageCommand{}, err
	}

	return cmd, nil
}

func NewScopedTransitionPackageCommand(
	mailroomID, packageID kernel.UUID,
	target parcel.Status,
) (TransitionPackageCommand, error) {
	if err := mailroomID.Validate(); err != nil {
		return TransitionPackageCommand{}, err
	}

	cmd, err := NewTransitionPackageCommand(packageID, target)
	if err != nil {
		return TransitionPackageCommand{}, err
	}
	cmd.mailroomID = &mailroomID
	return cmd, nil
}

func (c TransitionPackageCommand) Validate() error {
	return c.guard.Validate(ErrTransitionPackageCommandIsNotConstructed)
}

func (c TransitionPackageCommand) PackageID() kernel.UUID {
	return c.packageID
}

// MailroomID is the asserted mailroom, if any.
func (c TransitionPackageCommand) MailroomID() (kernel.UUID, bool) {
	if c.mailroomID == nil {
		return kernel.UUID{}, false
	}
	return *c.mailroomID, true
}

func (c TransitionPackageCommand) Target() parcel.Status {
	return c.target
}

func (c *TransitionPackageCommand) setPackageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.packageID = id
	return nil
}

func (c *TransitionPackageCommand) setTarget(target parcel.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}
