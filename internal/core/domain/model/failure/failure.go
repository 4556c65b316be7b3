// Package failure models the out-of-band records staff use to follow up on
// registrations that never reached the shelf and on notifications that were
// never delivered. Records are written best effort and never block the
// operation that produced them.
package failure

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/pkg/errs"
	"mailroom/internal/pkg/guard"
)

// Kind tells staff what to follow up on.
type Kind int

const (
	UnknownKind Kind = iota
	// RegistrationFailed is the FAILED package path: no package row, no number.
	RegistrationFailed
	// NotificationFailed means the package exists but the resident was not told.
	NotificationFailed
)

func (k Kind) String() string {
	switch k {
	case RegistrationFailed:
		return "REGISTRATION_FAILED"
	case NotificationFailed:
		return "NOTIFICATION_FAILED"
	case UnknownKind:
	}
	return "UNKNOWN"
}

func (k Kind) Validate() error {
	if k != RegistrationFailed && k != NotificationFailed {
		return errs.NewValueIsInvalidErrorWithCause("failure kind", fmt.Errorf("%d is not a failure kind", k))
	}
	return nil
}

var ErrRecordIsNotConstructed = errors.New("Record must be created via its constructors")

// Record is one failure awaiting manual follow-up.
type Record struct {
	id         kernel.UUID
	mailroomID kernel.UUID
	kind       Kind
	parcelID   *kernel.UUID
	staffID    *kernel.UUID
	studentID  string
	provider   string
	reason     string
	createdAt  time.Time

	guard guard.ConstructorGuard
}

// NewRegistrationFailure records a registration rejected before a package
// was persisted (unknown resident, full mailroom, storage error).
func NewRegistrationFailure(
	id, mailroomID, staffID kernel.UUID,
	studentID, provider, reason string,
	now time.Time,
) (*Record, error) {
	if err := staffID.Validate(); err != nil {
		return nil, err
	}
	return RestoreRecord(id, mailroomID, RegistrationFailed, nil, &staffID, studentID, provider, reason, now)
}

// NewNotificationFailure records an undelivered "your package arrived" message.
func NewNotificationFailure(
	id, mailroomID, parcelID kernel.UUID,
	studentID, reason string,
	now time.Time,
) (*Record, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}
	return RestoreRecord(id, mailroomID, NotificationFailed, &parcelID, nil, studentID, "", reason, now)
}

func RestoreRecord(
	id, mailroomID kernel.UUID,
	kind Kind,
	parcelID, staffID *kernel.UUID,
	studentID, provider, reason string,
	createdAt time.Time,
) (*Record, error) {
	if err := errors.Join(id.Validate(), mailroomID.Validate(), kind.Validate()); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}

	return &Record{
		id:         id,
		mailroomID: mailroomID,
		kind:       kind,
		parcelID:   parcelID,
		staffID:    staffID,
		studentID:  strings.TrimSpace(studentID),
		provider:   strings.TrimSpace(provider),
		reason:     reason,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (r *Record) Validate() error {
	if r == nil {
		return ErrRecordIsNotConstructed
	}
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

func (r *Record) ID() kernel.UUID {
	return r.id
}

func (r *Record) MailroomID() kernel.UUID {
	return r.mailroomID
}

func (r *Record) Kind() Kind {
	return r.kind
}

func (r *Record) ParcelID() *kernel.UUID {
	return r.parcelID
}

func (r *Record) StaffID() *kernel.UUID {
	return r.staffID
}

func (r *Record) StudentID() string {
	return r.studentID
}

func (r *Record) Provider() string {
	return r.provider
}

func (r *Record) Reason() string {
	return r.reason
}

func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}
