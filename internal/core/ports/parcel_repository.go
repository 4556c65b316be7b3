// Package ports defines the contracts between the mailroom core and its
// infrastructure: persistence, number allocation, identity and notification.
package ports

import (
	"context"
	"errors"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/domain/model/pkgnumber"
)

// ErrLiveNumberConflict is returned by ParcelRepository.Add when another live
// package of the same mailroom already holds the number. It means the
// allocator's view of the mailroom was stale.
var ErrLiveNumberConflict = errors.New("package number already held by a live package")

// ParcelRepository persists package aggregates.
type ParcelRepository interface {
	// Add persists a new package. Returns ErrLiveNumberConflict when the
	// number is already held by a live package of the same mailroom.
	Add(ctx context.Context, p *parcel.Parcel) error

	// Update persists status and timestamps of an existing package.
	Update(ctx context.Context, p *parcel.Parcel) error

	// Get retrieves a package by row id.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetForUpdate retrieves a package and locks its row until the
	// surrounding transaction ends, serializing concurrent transitions.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// LiveNumbers lists the numbers held by WAITING and RETRIEVED packages of
	// a mailroom.
	LiveNumbers(ctx context.Context, mailroomID kernel.UUID) ([]pkgnumber.Number, error)
}
