// Package residentrepo reads residents from the "residents" table. Residents
// are imported by the roster tooling; this service never writes them.
package residentrepo

import (
	"context"
	"errors"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/resident"
	"mailroom/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResidentDTO is the row of the residents table.
type ResidentDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	MailroomID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:residents_mailroom_student_uidx,priority:1"`
	StudentID  string    `gorm:"type:varchar(64);not null;uniqueIndex:residents_mailroom_student_uidx,priority:2"`
	FirstName  string    `gorm:"type:varchar(128)"`
	LastName   string    `gorm:"type:varchar(128)"`
	Email      string    `gorm:"type:varchar(255)"`
}

func (ResidentDTO) TableName() string {
	return "residents"
}

// GormResidentRepository implements ports.ResidentRepository using GORM.
type GormResidentRepository struct {
	db *gorm.DB
}

func NewGormResidentRepository(db *gorm.DB) *GormResidentRepository {
	return &GormResidentRepository{db: db}
}

// GetByStudentID matches the identifier case-insensitively and ignores
// surrounding blanks, the way staff type it at the counter.
func (r *GormResidentRepository) GetByStudentID(
	ctx context.Context,
	mailroomID kernel.UUID,
	studentID string,
) (*resident.Resident, error) {
	if err := mailroomID.Validate(); err != nil {
		return nil, err
	}

	normalized := resident.NormalizeStudentID(studentID)
	if normalized == "" {
		return nil, errs.NewValueIsRequiredError("student id")
	}

	var dto ResidentDTO
	err := r.db.WithContext(ctx).
		Where("mailroom_id = ? AND UPPER(TRIM(student_id)) = ?", mailroomID.Google(), normalized).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("resident", normalized)
		}
		return nil, err
	}

	return toDomain(dto)
}

func toDomain(dto ResidentDTO) (*resident.Resident, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	mailroomID, err := kernel.UUIDFromGoogle(dto.MailroomID)
	if err != nil {
		return nil, err
	}
	return resident.RestoreResident(id, mailroomID, dto.StudentID, dto.FirstName, dto.LastName, dto.Email)
}
