// Package parcelrepo persists the package aggregate in the "packages" table.
package parcelrepo

import (
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/domain/model/pkgnumber"

	"github.com/google/uuid"
)

// LiveNumberIndex enforces that no two live packages of a mailroom share a
// number. It is created by postgres.Migrate.
const LiveNumberIndex = "packages_live_number_uidx"

// PackageDTO is the row of the packages table. PackageID is the recycled
// display number, not the row identity.
type PackageDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	MailroomID         uuid.UUID  `gorm:"type:uuid;not null;index:packages_mailroom_status_idx,priority:1"`
	ResidentID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	StaffID            uuid.UUID  `gorm:"type:uuid;not null"`
	PackageID          int        `gorm:"column:package_id;type:smallint;not null"`
	Provider           string     `gorm:"type:varchar(64);not null"`
	Status             int        `gorm:"type:smallint;not null;index:packages_mailroom_status_idx,priority:2"`
	CreatedAt          time.Time  `gorm:"not null"`
	RetrievedTimestamp *time.Time `gorm:"column:retrieved_timestamp"`
	ResolvedTimestamp  *time.Time `gorm:"column:resolved_timestamp"`
}

func (PackageDTO) TableName() string {
	return "packages"
}

func fromDomain(p *parcel.Parcel) PackageDTO {
	return PackageDTO{
		ID:                 p.ID().Google(),
		MailroomID:         p.MailroomID().Google(),
		ResidentID:         p.ResidentID().Google(),
		StaffID:            p.StaffID().Google(),
		PackageID:          p.RecordedNumber().Int(),
		Provider:           p.Provider(),
		Status:             int(p.Status()),
		CreatedAt:          p.CreatedAt(),
		RetrievedTimestamp: p.RetrievedAt(),
		ResolvedTimestamp:  p.ResolvedAt(),
	}
}

func toDomain(dto PackageDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	mailroomID, err := kernel.UUIDFromGoogle(dto.MailroomID)
	if err != nil {
		return nil, err
	}
	residentID, err := kernel.UUIDFromGoogle(dto.ResidentID)
	if err != nil {
		return nil, err
	}
	staffID, err := kernel.UUIDFromGoogle(dto.StaffID)
	if err != nil {
		return nil, err
	}

	status := parcel.Status(dto.Status)

	var number pkgnumber.Number
	if status.IsLive() || dto.PackageID != 0 {
		number, err = pkgnumber.NewNumber(dto.PackageID)
		if err != nil {
			return nil, err
		}
	}

	return parcel.RestoreParcel(
		id, mailroomID, residentID, staffID,
		dto.Provider,
		number,
		status,
		dto.CreatedAt.UTC(),
		utc(dto.RetrievedTimestamp),
		utc(dto.ResolvedTimestamp),
	)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
