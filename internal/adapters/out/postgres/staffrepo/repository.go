// Package staffrepo resolves the role and mailroom of staff users.
package staffrepo

import (
	"context"
	"errors"
	"fmt"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/ports"
	"mailroom/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffDTO is the row of the staff table. Admins may have no home mailroom.
type StaffDTO struct {
	UserID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Role           string     `gorm:"type:varchar(16);not null"`
	MailroomID     *uuid.UUID `gorm:"type:uuid;index"`
	OrganizationID *uuid.UUID `gorm:"type:uuid"`
}

func (StaffDTO) TableName() string {
	return "staff"
}

// GormStaffDirectory implements ports.StaffDirectory using GORM.
type GormStaffDirectory struct {
	db *gorm.DB
}

func NewGormStaffDirectory(db *gorm.DB) *GormStaffDirectory {
	return &GormStaffDirectory{db: db}
}

func (d *GormStaffDirectory) GetScope(ctx context.Context, userID kernel.UUID) (ports.StaffScope, error) {
	if err := userID.Validate(); err != nil {
		return ports.StaffScope{}, err
	}

	var dto StaffDTO
	if err := d.db.WithContext(ctx).First(&dto, "user_id = ?", userID.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StaffScope{}, errs.NewObjectNotFoundError("staff", userID.String())
		}
		return ports.StaffScope{}, err
	}

	role := ports.Role(dto.Role)
	switch role {
	case ports.RoleAdmin, ports.RoleManager, ports.RoleUser:
	default:
		return ports.StaffScope{}, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a staff role", dto.Role))
	}

	scope := ports.StaffScope{UserID: userID, Role: role}
	if dto.MailroomID != nil {
		id, err := kernel.UUIDFromGoogle(*dto.MailroomID)
		if err != nil {
			return ports.StaffScope{}, err
		}
		scope.MailroomID = id
	}
	if dto.OrganizationID != nil {
		id, err := kernel.UUIDFromGoogle(*dto.OrganizationID)
		if err != nil {
			return ports.StaffScope{}, err
		}
		scope.OrganizationID = id
	}
	return scope, nil
}
