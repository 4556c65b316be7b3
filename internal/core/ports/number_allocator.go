package ports

import (
	"context"
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/pkgnumber"
)

// NumberAllocator is the sole authority over which package numbers of a
// mailroom are in use.
//
// Implementations must linearize Acquire and Release per mailroom, must not
// serialize different mailrooms behind one lock, and must select and reserve
// the number in one indivisible step.
type NumberAllocator interface {
	// Acquire reserves and returns the smallest available number of the
	// mailroom. Returns *pkgnumber.PoolExhaustedError when all are in use.
	Acquire(ctx context.Context, mailroomID kernel.UUID) (pkgnumber.Number, error)

	// Release returns number to the mailroom's pool. Releasing an available
	// number is a no-op.
	Release(ctx context.Context, mailroomID kernel.UUID, number pkgnumber.Number) error
}

// NumberReservations exposes the allocator state to reconciliation.
type NumberReservations interface {
	// MailroomsWithReservations lists mailrooms holding at least one number.
	MailroomsWithReservations(ctx context.Context) ([]kernel.UUID, error)

	// Reservations lists the in-use numbers of a mailroom with claim times.
	Reservations(ctx context.Context, mailroomID kernel.UUID) ([]pkgnumber.Reservation, error)

	// ReleaseIfReservedBefore frees number only while it is still in use
	// under a reservation made before cutoff, and reports whether it did.
	// A number released and claimed again since it was listed is kept.
	ReleaseIfReservedBefore(
		ctx context.Context,
		mailroomID kernel.UUID,
		number pkgnumber.Number,
		cutoff time.Time,
	) (bool, error)
}

// ReconcilableAllocator is implemented by every allocator adapter.
type ReconcilableAllocator interface {
	NumberAllocator
	NumberReservations
}
