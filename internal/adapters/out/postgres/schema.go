package postgres

import (
	"context"
	"fmt"

	"mailroom/internal/adapters/out/postgres/failurerepo"
	"mailroom/internal/adapters/out/postgres/numberpool"
	"mailroom/internal/adapters/out/postgres/parcelrepo"
	"mailroom/internal/adapters/out/postgres/residentrepo"
	"mailroom/internal/adapters/out/postgres/staffrepo"
	"mailroom/internal/core/domain/model/parcel"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns, plus the partial
// indexes AutoMigrate cannot express.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(
		&residentrepo.ResidentDTO{},
		&staffrepo.StaffDTO{},
		&parcelrepo.PackageDTO{},
		&failurerepo.FailureDTO{},
		&numberpool.PackageNumberDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	statements := []string{
		fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s ON packages (mailroom_id, package_id) WHERE status IN (%d, %d)`,
			parcelrepo.LiveNumberIndex, parcel.Waiting, parcel.Retrieved,
		),
		`CREATE INDEX IF NOT EXISTS package_numbers_free_idx ON package_numbers (mailroom_id, number) WHERE NOT in_use`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}
