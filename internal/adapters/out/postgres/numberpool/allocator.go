// Package numberpool keeps package number pools in PostgreSQL so that every
// instance of the service shares one authority per mailroom.
//
// Each mailroom owns 999 rows in package_numbers. A claim is a single UPDATE
// whose subquery picks the smallest free row with FOR UPDATE SKIP LOCKED, so
// concurrent claims in the same mailroom never see the same row and claims
// in different mailrooms never touch each other's rows.
package numberpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	backend = "postgres"

	// maxClaimAttempts bounds retries when every free row was locked by a
	// concurrent claim at the time of the UPDATE.
	maxClaimAttempts = 5
)

var ErrClaimContention = errors.New("could not claim a package number under contention")

// PackageNumberDTO is one number of one mailroom.
type PackageNumberDTO struct {
	MailroomID uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number     int        `gorm:"type:smallint;primaryKey;autoIncrement:false"`
	InUse      bool       `gorm:"not null;default:false"`
	ReservedAt *time.Time `gorm:"type:timestamptz"`
}

func (PackageNumberDTO) TableName() string {
	return "package_numbers"
}

const seedSQL = `
	INSERT INTO package_numbers (mailroom_id, number, in_use, reserved_at)
	SELECT
		@mailroom,
		s.n,
		live.package_id IS NOT NULL,
		CASE WHEN live.package_id IS NULL THEN NULL ELSE @now::timestamptz END
	FROM generate_series(@min::int, @max::int) AS s(n)
	LEFT JOIN (
		SELECT DISTINCT package_id
		FROM packages
		WHERE mailroom_id = @mailroom AND status IN @live
	) AS live ON live.package_id = s.n
	ON CONFLICT (mailroom_id, number) DO NOTHING
`

const claimSQL = `
	UPDATE package_numbers
	SET in_use = TRUE, reserved_at = @now
	WHERE mailroom_id = @mailroom
		AND NOT in_use
		AND number = (
			SELECT number
			FROM package_numbers
			WHERE mailroom_id = @mailroom AND NOT in_use
			ORDER BY number
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
	RETURNING number
`

// GormAllocator implements ports.ReconcilableAllocator on PostgreSQL.
type GormAllocator struct {
	db    *gorm.DB
	clock kernel.Clock

	seeded sync.Map
}

func NewGormAllocator(db *gorm.DB, clock kernel.Clock) *GormAllocator {
	return &GormAllocator{db: db, clock: clock}
}

func (a *GormAllocator) Acquire(ctx context.Context, mailroomID kernel.UUID) (pkgnumber.Number, error) {
	n, err := a.acquire(ctx, mailroomID)
	switch {
	case err == nil:
		metrics.RecordNumberOperation(backend, "acquire", metrics.ResultOK)
	case errors.Is(err, pkgnumber.ErrPoolExhausted):
		metrics.RecordNumberOperation(backend, "acquire", metrics.ResultExhausted)
	default:
		metrics.RecordNumberOperation(backend, "acquire", metrics.ResultError)
	}
	return n, err
}

func (a *GormAllocator) acquire(ctx context.Context, mailroomID kernel.UUID) (pkgnumber.Number, error) {
	if err := mailroomID.Validate(); err != nil {
		return pkgnumber.Number{}, err
	}
	if err := a.ensureSeeded(ctx, mailroomID); err != nil {
		return pkgnumber.Number{}, err
	}

	for range maxClaimAttempts {
		var claimed []int
		err := a.db.WithContext(ctx).Raw(claimSQL, map[string]any{
			"now":      a.clock.Now(),
			"mailroom": mailroomID.Google(),
		}).Scan(&claimed).Error
		if err != nil {
			return pkgnumber.Number{}, fmt.Errorf("claim package number: %w", err)
		}
		if len(claimed) == 1 {
			return pkgnumber.NewNumber(claimed[0])
		}

		var free int64
		err = a.db.WithContext(ctx).
			Model(&PackageNumberDTO{}).
			Where("mailroom_id = ? AND NOT in_use", mailroomID.Google()).
			Count(&free).Error
		if err != nil {
			return pkgnumber.Number{}, fmt.Errorf("count free package numbers: %w", err)
		}
		if free == 0 {
			return pkgnumber.Number{}, pkgnumber.NewPoolExhaustedError(mailroomID.String())
		}
	}

	return pkgnumber.Number{}, ErrClaimContention
}

// Release frees number. Releasing a free or never seeded number is a no-op.
func (a *GormAllocator) Release(ctx context.Context, mailroomID kernel.UUID, number pkgnumber.Number) error {
	if err := mailroomID.Validate(); err != nil {
		return err
	}
	if err := number.Validate(); err != nil {
		return err
	}

	err := a.db.WithContext(ctx).
		Model(&PackageNumberDTO{}).
		Where("mailroom_id = ? AND number = ?", mailroomID.Google(), number.Int()).
		Updates(map[string]any{"in_use": false, "reserved_at": nil}).Error
	if err != nil {
		metrics.RecordNumberOperation(backend, "release", metrics.ResultError)
		return fmt.Errorf("release package number: %w", err)
	}

	metrics.RecordNumberOperation(backend, "release", metrics.ResultOK)
	return nil
}

// ReleaseIfReservedBefore frees number only if the row is still in use with
// a reservation older than cutoff. A row claimed again since it was listed
// carries a newer reserved_at and is left alone.
func (a *GormAllocator) ReleaseIfReservedBefore(
	ctx context.Context,
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

	result := a.db.WithContext(ctx).
		Model(&PackageNumberDTO{}).
		Where("mailroom_id = ? AND number = ? AND in_use AND reserved_at < ?", mailroomID.Google(), number.Int(), cutoff).
		Updates(map[string]any{"in_use": false, "reserved_at": nil})
	if result.Error != nil {
		metrics.RecordNumberOperation(backend, "release", metrics.ResultError)
		return false, fmt.Errorf("release stale package number: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return false, nil
	}
	metrics.RecordNumberOperation(backend, "release", metrics.ResultOK)
	return true, nil
}

func (a *GormAllocator) MailroomsWithReservations(ctx context.Context) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := a.db.WithContext(ctx).
		Model(&PackageNumberDTO{}).
		Distinct("mailroom_id").
		Where("in_use").
		Pluck("mailroom_id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromGoogle(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *GormAllocator) Reservations(ctx context.Context, mailroomID kernel.UUID) ([]pkgnumber.Reservation, error) {
	if err := mailroomID.Validate(); err != nil {
		return nil, err
	}

	var rows []PackageNumberDTO
	err := a.db.WithContext(ctx).
		Where("mailroom_id = ? AND in_use", mailroomID.Google()).
		Order("number").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]pkgnumber.Reservation, 0, len(rows))
	for _, row := range rows {
		n, err := pkgnumber.NewNumber(row.Number)
		if err != nil {
			return nil, err
		}
		r := pkgnumber.Reservation{Number: n}
		if row.ReservedAt != nil {
			r.ReservedAt = row.ReservedAt.UTC()
		}
		out = append(out, r)
	}
	return out, nil
}

// ensureSeeded creates the mailroom's rows on first use. Numbers held by
// live packages start out in use.
func (a *GormAllocator) ensureSeeded(ctx context.Context, mailroomID kernel.UUID) error {
	if _, ok := a.seeded.Load(mailroomID); ok {
		return nil
	}

	err := a.db.WithContext(ctx).Exec(seedSQL, map[string]any{
		"mailroom": mailroomID.Google(),
		"now":      a.clock.Now(),
		"min":      pkgnumber.MinNumber,
		"max":      pkgnumber.MaxNumber,
		"live":     []int{int(parcel.Waiting), int(parcel.Retrieved)},
	}).Error
	if err != nil {
		return fmt.Errorf("seed package numbers of mailroom %s: %w", mailroomID, err)
	}

	a.seeded.Store(mailroomID, struct{}{})
	return nil
}
