package parcel

import (
	"errors"
	"strings"
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/pkg/errs"
	"mailroom/internal/pkg/guard"
)

// ErrParcelIsNotConstructed is returned when a Parcel was not built by
// NewParcel or RestoreParcel.
var ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel")

// Parcel is the aggregate root for a package on (or formerly on) the shelf.
//
// Invariants:
//   - identity, mailroom, resident and registering staff are valid UUIDs
//   - a live parcel always holds a number
//   - retrievedAt is set iff the parcel went through RETRIEVED
//   - resolvedAt is set iff the parcel is RESOLVED
type Parcel struct {
	id         kernel.UUID
	mailroomID kernel.UUID
	residentID kernel.UUID
	staffID    kernel.UUID
	provider   string
	number     pkgnumber.Number
	status     Status

	createdAt   time.Time
	retrievedAt *time.Time
	resolvedAt  *time.Time

	guard guard.ConstructorGuard
}

// Transition describes a completed status change. Released is the number the
// caller must hand back to the allocator; it is zero unless the parcel just
// became RESOLVED.
type Transition struct {
	From     Status
	To       Status
	Released pkgnumber.Number
}

// NewParcel registers a parcel in WAITING with an already acquired number.
func NewParcel(
	id, mailroomID, residentID, staffID kernel.UUID,
	provider string,
	number pkgnumber.Number,
	now time.Time,
) (*Parcel, error) {
	p := &Parcel{
		status:    Waiting,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setIdentity(id, mailroomID, residentID, staffID),
		p.setProvider(provider),
		p.setNumber(number),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreParcel rebuilds a parcel from storage. Terminal parcels may carry the
// number they last held (or none); live parcels must carry one.
func RestoreParcel(
	id, mailroomID, residentID, staffID kernel.UUID,
	provider string,
	number pkgnumber.Number,
	status Status,
	createdAt time.Time,
	retrievedAt, resolvedAt *time.Time,
) (*Parcel, error) {
	p := &Parcel{
		number:      number,
		createdAt:   createdAt,
		retrievedAt: retrievedAt,
		resolvedAt:  resolvedAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setIdentity(id, mailroomID, residentID, staffID),
		p.setProvider(provider),
		p.setStatus(status),
	); err != nil {
		return nil, err
	}

	if status.IsLive() {
		if err := number.Validate(); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Parcel) Validate() error {
	if p == nil {
		return ErrParcelIsNotConstructed
	}
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Parcel) ID() kernel.UUID {
	return p.id
}

func (p *Parcel) MailroomID() kernel.UUID {
	return p.mailroomID
}

func (p *Parcel) ResidentID() kernel.UUID {
	return p.residentID
}

func (p *Parcel) StaffID() kernel.UUID {
	return p.staffID
}

func (p *Parcel) Provider() string {
	return p.provider
}

func (p *Parcel) Status() Status {
	return p.status
}

func (p *Parcel) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Parcel) RetrievedAt() *time.Time {
	return p.retrievedAt
}

func (p *Parcel) ResolvedAt() *time.Time {
	return p.resolvedAt
}

// Number returns the number the parcel currently holds. ok is false once the
// parcel is terminal, because the number may already belong to another parcel.
func (p *Parcel) Number() (pkgnumber.Number, bool) {
	if !p.status.IsLive() {
		return pkgnumber.Number{}, false
	}
	return p.number, true
}

// RecordedNumber is the number stored with the row, live or not. Persistence
// and history views use it; allocation logic must use Number.
func (p *Parcel) RecordedNumber() pkgnumber.Number {
	return p.number
}

// TransitionTo moves the parcel to target through the status table and applies
// the side effects bound to the new state. On error the parcel is unchanged.
func (p *Parcel) TransitionTo(target Status, now time.Time) (Transition, error) {
	if err := p.Validate(); err != nil {
		return Transition{}, err
	}

	from := p.status
	next, err := from.TransitionTo(target)
	if err != nil {
		return Transition{}, err
	}

	result := Transition{From: from, To: next}
	switch next {
	case Retrieved:
		at := now
		p.retrievedAt = &at
	case Resolved:
		at := now
		p.resolvedAt = &at
		result.Released = p.number
	case Unknown, Waiting, Failed:
	}

	p.status = next
	return result, nil
}

// Retrieve records the hand-over to the resident.
func (p *Parcel) Retrieve(now time.Time) (Transition, error) {
	return p.TransitionTo(Retrieved, now)
}

// Resolve closes the parcel and returns the number to release.
func (p *Parcel) Resolve(now time.Time) (Transition, error) {
	return p.TransitionTo(Resolved, now)
}

func (p *Parcel) setIdentity(id, mailroomID, residentID, staffID kernel.UUID) error {
	if err := errors.Join(id.Validate(), mailroomID.Validate(), residentID.Validate(), staffID.Validate()); err != nil {
		return err
	}
	p.id = id
	p.mailroomID = mailroomID
	p.residentID = residentID
	p.staffID = staffID
	return nil
}

func (p *Parcel) setProvider(provider string) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return errs.NewValueIsRequiredError("provider")
	}
	p.provider = provider
	return nil
}

func (p *Parcel) setNumber(number pkgnumber.Number) error {
	if err := number.Validate(); err != nil {
		return err
	}
	p.number = number
	return nil
}

func (p *Parcel) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	p.status = status
	return nil
}
