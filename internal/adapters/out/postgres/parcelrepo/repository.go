package parcelrepo

import (
	"context"
	"errors"
	"fmt"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/core/ports"
	"mailroom/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

// GormParcelRepository implements ports.ParcelRepository using GORM.
type GormParcelRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormParcelRepository(db *gorm.DB, tracker aggregateTracker) *GormParcelRepository {
	return &GormParcelRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new package. A live-number index violation is reported as
// ports.ErrLiveNumberConflict.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isLiveNumberConflict(err) {
			return fmt.Errorf("%w: number %d: %w", ports.ErrLiveNumberConflict, dto.PackageID, err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes status and timestamps of an existing package.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PackageDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "retrieved_timestamp", "resolved_timestamp").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("package", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate locks the row with SELECT ... FOR UPDATE. It only serializes
// callers when the repository runs inside a transaction.
func (r *GormParcelRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormParcelRepository) LiveNumbers(ctx context.Context, mailroomID kernel.UUID) ([]pkgnumber.Number, error) {
	if err := mailroomID.Validate(); err != nil {
		return nil, err
	}

	var values []int
	err := r.db.WithContext(ctx).
		Model(&PackageDTO{}).
		Where("mailroom_id = ? AND status IN ?", mailroomID.Google(), []int{int(parcel.Waiting), int(parcel.Retrieved)}).
		Order("package_id").
		Pluck("package_id", &values).Error
	if err != nil {
		return nil, err
	}

	numbers := make([]pkgnumber.Number, 0, len(values))
	for _, v := range values {
		n, err := pkgnumber.NewNumber(v)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func (r *GormParcelRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PackageDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("package", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func isLiveNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolation &&
		pgErr.ConstraintName == LiveNumberIndex
}
