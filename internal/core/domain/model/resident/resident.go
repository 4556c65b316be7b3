// Package resident models the mailroom members packages are registered for.
// Residents are imported from rosters elsewhere; this service only reads them.
package resident

import (
	"errors"
	"strings"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/pkg/errs"
	"mailroom/internal/pkg/guard"
)

var ErrResidentIsNotConstructed = errors.New("Resident must be created via RestoreResident")

// Resident is matched by StudentID, the identifier printed on the parcel
// label or typed by staff, which is unique within a mailroom.
type Resident struct {
	id         kernel.UUID
	mailroomID kernel.UUID
	studentID  string
	firstName  string
	lastName   string
	email      string

	guard guard.ConstructorGuard
}

// NormalizeStudentID is applied to both stored and looked-up identifiers.
func NormalizeStudentID(studentID string) string {
	return strings.ToUpper(strings.TrimSpace(studentID))
}

func RestoreResident(id, mailroomID kernel.UUID, studentID, firstName, lastName, email string) (*Resident, error) {
	r := &Resident{
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
		email:     strings.TrimSpace(email),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(id.Validate(), mailroomID.Validate()); err != nil {
		return nil, err
	}
	r.id = id
	r.mailroomID = mailroomID

	r.studentID = NormalizeStudentID(studentID)
	if r.studentID == "" {
		return nil, errs.NewValueIsRequiredError("student id")
	}

	return r, nil
}

func (r *Resident) Validate() error {
	if r == nil {
		return ErrResidentIsNotConstructed
	}
	return r.guard.Validate(ErrResidentIsNotConstructed)
}

func (r *Resident) ID() kernel.UUID {
	return r.id
}

func (r *Resident) MailroomID() kernel.UUID {
	return r.mailroomID
}

func (r *Resident) StudentID() string {
	return r.studentID
}

func (r *Resident) Email() string {
	return r.email
}

// FullName joins the non-empty name parts.
func (r *Resident) FullName() string {
	return strings.TrimSpace(r.firstName + " " + r.lastName)
}

// CanBeNotified reports whether the resident has an address to email.
func (r *Resident) CanBeNotified() bool {
	return strings.Contains(r.email, "@")
}
