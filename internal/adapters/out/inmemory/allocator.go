// Package inmemory provides a process-local package number allocator.
//
// Each mailroom gets its own arena guarded by its own mutex, so acquisitions
// in different mailrooms never wait on each other. An arena is built lazily
// from the numbers held by live packages the first time its mailroom is
// touched, which keeps the allocator correct across restarts.
//
// The allocator is authoritative only within one process. When several
// instances share a database the live-number index on packages rejects a
// stale number and registration retries with a fresh one.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/metrics"
)

const backend = "memory"

// LiveNumberSource reports the numbers held by live packages of a mailroom.
// ports.ParcelRepository satisfies it.
type LiveNumberSource interface {
	LiveNumbers(ctx context.Context, mailroomID kernel.UUID) ([]pkgnumber.Number, error)
}

type arena struct {
	mu         sync.Mutex
	loaded     bool
	pool       *pkgnumber.Pool
	reservedAt map[pkgnumber.Number]time.Time
}

// Allocator implements ports.ReconcilableAllocator in memory.
type Allocator struct {
	source LiveNumberSource
	clock  kernel.Clock

	mu     sync.Mutex
	arenas map[kernel.UUID]*arena
}

func NewAllocator(source LiveNumberSource, clock kernel.Clock) *Allocator {
	return &Allocator{
		source: source,
		clock:  clock,
		arenas: make(map[kernel.UUID]*arena),
	}
}

func (a *Allocator) Acquire(ctx context.Context, mailroomID kernel.UUID) (pkgnumber.Number, error) {
	if err := mailroomID.Validate(); err != nil {
		return pkgnumber.Number{}, err
	}

	ar := a.arena(mailroomID)
	ar.mu.Lock()
	defer ar.mu.Unlock()

	if err := a.load(ctx, mailroomID, ar); err != nil {
		metrics.RecordNumberOperation(backend, "acquire", metrics.ResultError)
		return pkgnumber.Number{}, err
	}

	n, err := ar.pool.Acquire(mailroomID.String())
	if err != nil {
		metrics.RecordNumberOperation(backend, "acquire", metrics.ResultExhausted)
		return pkgnumber.Number{}, err
	}

	ar.reservedAt[n] = a.clock.Now()
	metrics.RecordNumberOperation(backend, "acquire", metrics.ResultOK)
	return n, nil
}

// Release frees number. Releasing a number of a mailroom that was never
// loaded is a no-op: the arena is rebuilt from live packages when needed.
func (a *Allocator) Release(_ context.Context, mailroomID kernel.UUID, number pkgnumber.Number) error {
	if err := mailroomID.Validate(); err != nil {
		return err
	}
	if err := number.Validate(); err != nil {
		return err
	}

	ar := a.arena(mailroomID)
	ar.mu.Lock()
	defer ar.mu.Unlock()

	if ar.loaded && ar.pool.Release(number) {
		delete(ar.reservedAt, number)
	}
	metrics.RecordNumberOperation(backend, "release", metrics.ResultOK)
	return nil
}

// ReleaseIfReservedBefore frees number only if its current reservation was
// made before cutoff. The check and the release happen under the arena lock.
func (a *Allocator) ReleaseIfReservedBefore(
	_ context.Context,
	mailroomID kernel.UUID,
	number pkgnumber.Number,
	cutoff time.Time,
) (bool, error) {
	if err := mailroomID.Validate(); err != nil {
		return false, err
	}
	if err := number.Validate(); err != nil {
		return false, err
	}

	ar := a.arena(mailroomID)
	ar.mu.Lock()
	defer ar.mu.Unlock()

	if !ar.loaded || !ar.pool.InUse(number) || !ar.reservedAt[number].Before(cutoff) {
		return false, nil
	}

	ar.pool.Release(number)
	delete(ar.reservedAt, number)
	metrics.RecordNumberOperation(backend, "release", metrics.ResultOK)
	return true, nil
}

func (a *Allocator) MailroomsWithReservations(_ context.Context) ([]kernel.UUID, error) {
	a.mu.Lock()
	ids := make([]kernel.UUID, 0, len(a.arenas))
	arenas := make([]*arena, 0, len(a.arenas))
	for id, ar := range a.arenas {
		ids = append(ids, id)
		arenas = append(arenas, ar)
	}
	a.mu.Unlock()

	out := make([]kernel.UUID, 0, len(ids))
	for i, ar := range arenas {
		ar.mu.Lock()
		if ar.loaded && ar.pool.Len() > 0 {
			out = append(out, ids[i])
		}
		ar.mu.Unlock()
	}
	return out, nil
}

func (a *Allocator) Reservations(_ context.Context, mailroomID kernel.UUID) ([]pkgnumber.Reservation, error) {
	ar := a.arena(mailroomID)
	ar.mu.Lock()
	defer ar.mu.Unlock()

	if !ar.loaded {
		return []pkgnumber.Reservation{}, nil
	}

	numbers := ar.pool.Numbers()
	out := make([]pkgnumber.Reservation, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, pkgnumber.Reservation{Number: n, ReservedAt: ar.reservedAt[n]})
	}
	return out, nil
}

func (a *Allocator) arena(mailroomID kernel.UUID) *arena {
	a.mu.Lock()
	defer a.mu.Unlock()

	ar, ok := a.arenas[mailroomID]
	if !ok {
		ar = &arena{}
		a.arenas[mailroomID] = ar
	}
	return ar
}

// load must be called with ar.mu held.
func (a *Allocator) load(ctx context.Context, mailroomID kernel.UUID, ar *arena) error {
	if ar.loaded {
		return nil
	}

	live, err := a.source.LiveNumbers(ctx, mailroomID)
	if err != nil {
		return fmt.Errorf("load live numbers of mailroom %s: %w", mailroomID, err)
	}

	now := a.clock.Now()
	ar.pool = pkgnumber.NewPool()
	ar.reservedAt = make(map[pkgnumber.Number]time.Time, len(live))
	for _, n := range live {
		if ar.pool.Reserve(n) {
			ar.reservedAt[n] = now
		}
	}
	ar.loaded = true
	return nil
}
