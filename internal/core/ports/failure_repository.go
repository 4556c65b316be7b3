package ports

import (
	"context"

	"mailroom/internal/core/domain/model/failure"
)

// FailureRepository stores follow-up records for staff.
type FailureRepository interface {
	Add(ctx context.Context, record *failure.Record) error
}
