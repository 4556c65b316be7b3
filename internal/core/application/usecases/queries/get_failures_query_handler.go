package queries

import (
	"context"
	"time"

	"mailroom/internal/core/domain/model/failure"
	"mailroom/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetFailuresQueryHandler lists failure records newest first.
type GetFailuresQueryHandler struct {
	db *gorm.DB
}

func NewGetFailuresQueryHandler(db *gorm.DB) GetFailuresQueryHandler {
	return GetFailuresQueryHandler{db: db}
}

func (h GetFailuresQueryHandler) Handle(ctx context.Context, query GetFailuresQuery) ([]FailureView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			kind,
			package_ref,
			staff_id,
			COALESCE(student_id, ''),
			COALESCE(provider, ''),
			reason,
			created_at
		FROM package_failures
		WHERE mailroom_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, query.MailroomID().Google(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	failures := make([]FailureView, 0)
	for rows.Next() {
		var (
			id                          uuid.UUID
			kind                        int
			packageRef, staff           uuid.NullUUID
			studentID, provider, reason string
			createdAt                   time.Time
		)
		if err = rows.Scan(&id, &kind, &packageRef, &staff, &studentID, &provider, &reason, &createdAt); err != nil {
			return nil, err
		}

		view := FailureView{
			Kind:      failure.Kind(kind),
			StudentID: studentID,
			Provider:  provider,
			Reason:    reason,
			CreatedAt: createdAt.UTC(),
		}
		if view.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		if view.PackageID, err = optionalUUID(packageRef); err != nil {
			return nil, err
		}
		if view.StaffID, err = optionalUUID(staff); err != nil {
			return nil, err
		}
		failures = append(failures, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return failures, nil
}

func optionalUUID(v uuid.NullUUID) (*kernel.UUID, error) {
	if !v.Valid {
		return nil, nil //nolint:nilnil // absent reference
	}
	id, err := kernel.UUIDFromGoogle(v.UUID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
