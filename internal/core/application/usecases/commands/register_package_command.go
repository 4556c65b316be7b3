package commands

import (
	"errors"
	"strings"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/resident"
	"mailroom/internal/pkg/errs"
	"mailroom/internal/pkg/guard"
)

var ErrRegisterPackageCommandIsNotConstructed = errors.New(
	"RegisterPackageCommand must be created via NewRegisterPackageCommand constructor",
)

// RegisterPackageCommand asks to put a new package on the shelf of a
// mailroom for the resident identified by studentID.
type RegisterPackageCommand struct { //nolint:recvcheck //using for validation
	mailroomID kernel.UUID
	staffID    kernel.UUID
	studentID  string
	provider   string

	guard guard.ConstructorGuard
}

func NewRegisterPackageCommand(mailroomID, staffID kernel.UUID, studentID, provider string) (RegisterPackageCommand, error) {
	cmd := RegisterPackageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setMailroomID(mailroomID),
		cmd.setStaffID(staffID),
		cmd.setStudentID(studentID),
		cmd.setProvider(provider),
	); err != nil {
		return RegisterPackageCommand{}, err
	}

	return cmd, nil
}

func (c RegisterPackageCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPackageCommandIsNotConstructed)
}

func (c RegisterPackageCommand) MailroomID() kernel.UUID {
	return c.mailroomID
}

// StaffID is the staff member registering the package.
func (c RegisterPackageCommand) StaffID() kernel.UUID {
	return c.staffID
}

// StudentID is the normalized resident identifier.
func (c RegisterPackageCommand) StudentID() string {
	return c.studentID
}

// Provider is the carrier name, e.g. "UPS".
func (c RegisterPackageCommand) Provider() string {
	return c.provider
}

func (c *RegisterPackageCommand) setMailroomID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.mailroomID = id
	return nil
}

func (c *RegisterPackageCommand) setStaffID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.staffID = id
	return nil
}

func (c *RegisterPackageCommand) setStudentID(studentID string) error {
	studentID = resident.NormalizeStudentID(studentID)
	if studentID == "" {
		return errs.NewValueIsRequiredError("student id")
	}
	c.studentID = studentID
	return nil
}

func (c *RegisterPackageCommand) setProvider(provider string) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return errs.NewValueIsRequiredError("provider")
	}
	c.provider = provider
	return nil
}
