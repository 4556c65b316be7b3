package ports

import (
	"context"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/resident"
)

// ResidentRepository looks residents up. Residents are never created here.
type ResidentRepository interface {
	// GetByStudentID finds a resident of the mailroom by external identifier.
	// Returns errs.ObjectNotFoundError when no resident matches.
	GetByStudentID(ctx context.Context, mailroomID kernel.UUID, studentID string) (*resident.Resident, error)
}
