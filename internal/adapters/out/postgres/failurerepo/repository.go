// Package failurerepo stores failure records in the "package_failures" table.
package failurerepo

import (
	"context"
	"time"

	"mailroom/internal/core/domain/model/failure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FailureDTO is the row of the package_failures table.
type FailureDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	MailroomID uuid.UUID  `gorm:"type:uuid;not null;index:package_failures_mailroom_created_idx,priority:1"`
	Kind       int        `gorm:"type:smallint;not null"`
	PackageRef *uuid.UUID `gorm:"type:uuid;column:package_ref"`
	StaffID    *uuid.UUID `gorm:"type:uuid"`
	StudentID  string     `gorm:"type:varchar(64)"`
	Provider   string     `gorm:"type:varchar(64)"`
	Reason     string     `gorm:"type:text;not null"`
	CreatedAt  time.Time  `gorm:"not null;index:package_failures_mailroom_created_idx,priority:2,sort:desc"`
}

func (FailureDTO) TableName() string {
	return "package_failures"
}

// GormFailureRepository implements ports.FailureRepository using GORM.
type GormFailureRepository struct {
	db *gorm.DB
}

func NewGormFailureRepository(db *gorm.DB) *GormFailureRepository {
	return &GormFailureRepository{db: db}
}

func (r *GormFailureRepository) Add(ctx context.Context, record *failure.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := FailureDTO{
		ID:         record.ID().Google(),
		MailroomID: record.MailroomID().Google(),
		Kind:       int(record.Kind()),
		StudentID:  record.StudentID(),
		Provider:   record.Provider(),
		Reason:     record.Reason(),
		CreatedAt:  record.CreatedAt(),
	}
	if id := record.ParcelID(); id != nil {
		raw := id.Google()
		dto.PackageRef = &raw
	}
	if id := record.StaffID(); id != nil {
		raw := id.Google()
		dto.StaffID = &raw
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}
