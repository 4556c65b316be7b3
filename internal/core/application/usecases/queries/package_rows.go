package queries

import (
	"database/sql"
	"strings"
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

const packageViewColumns = `
	p.id,
	p.mailroom_id,
	p.resident_id,
	COALESCE(r.student_id, ''),
	COALESCE(r.first_name, ''),
	COALESCE(r.last_name, ''),
	p.staff_id,
	p.package_id,
	p.provider,
	p.status,
	p.created_at,
	p.retrieved_timestamp,
	p.resolved_timestamp
`

const packageViewFrom = `
	FROM packages p
	LEFT JOIN residents r ON r.id = p.resident_id
`

func scanPackageView(rows *sql.Rows) (PackageView, error) {
	var (
		id, mailroomID, residentID, staffID uuid.UUID
		studentID, firstName, lastName      string
		number, status                      int
		provider                            string
		createdAt                           time.Time
		retrievedAt, resolvedAt             sql.NullTime
	)

	if err := rows.Scan(
		&id,
		&mailroomID,
		&residentID,
		&studentID,
		&firstName,
		&lastName,
		&staffID,
		&number,
		&provider,
		&status,
		&createdAt,
		&retrievedAt,
		&resolvedAt,
	); err != nil {
		return PackageView{}, err
	}

	view := PackageView{
		StudentID:    studentID,
		ResidentName: strings.TrimSpace(firstName + " " + lastName),
		Provider:     provider,
		Status:       parcel.Status(status),
		CreatedAt:    createdAt.UTC(),
		RetrievedAt:  nullTime(retrievedAt),
		ResolvedAt:   nullTime(resolvedAt),
	}
	if view.Status.IsLive() {
		view.Number = &number
	}

	var err error
	if view.ID, err = kernel.UUIDFromGoogle(id); err != nil {
		return PackageView{}, err
	}
	if view.MailroomID, err = kernel.UUIDFromGoogle(mailroomID); err != nil {
		return PackageView{}, err
	}
	if view.ResidentID, err = kernel.UUIDFromGoogle(residentID); err != nil {
		return PackageView{}, err
	}
	if view.StaffID, err = kernel.UUIDFromGoogle(staffID); err != nil {
		return PackageView{}, err
	}
	return view, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	u := t.Time.UTC()
	return &u
}
