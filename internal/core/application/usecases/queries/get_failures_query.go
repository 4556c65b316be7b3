package queries

import (
	"errors"
	"fmt"
	"time"

	"mailroom/internal/core/domain/model/failure"
	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/pkg/errs"
	"mailroom/internal/pkg/guard"
)

const (
	DefaultFailuresLimit = 50
	MaxFailuresLimit     = 500
)

var ErrGetFailuresQueryIsNotConstructed = errors.New(
	"GetFailuresQuery must be created via NewGetFailuresQuery constructor",
)

// GetFailuresQuery lists the most recent failure records of a mailroom for
// staff follow-up. A limit of 0 selects DefaultFailuresLimit.
type GetFailuresQuery struct {
	mailroomID kernel.UUID
	limit      int

	guard guard.ConstructorGuard
}

func NewGetFailuresQuery(mailroomID kernel.UUID, limit int) (GetFailuresQuery, error) {
	if err := mailroomID.Validate(); err != nil {
		return GetFailuresQuery{}, err
	}
	if limit == 0 {
		limit = DefaultFailuresLimit
	}
	if limit < 1 || limit > MaxFailuresLimit {
		return GetFailuresQuery{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"limit", limit, 1, MaxFailuresLimit, fmt.Errorf("limit %d", limit),
		)
	}
	return GetFailuresQuery{mailroomID: mailroomID, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFailuresQuery) Validate() error {
	return q.guard.Validate(ErrGetFailuresQueryIsNotConstructed)
}

func (q GetFailuresQuery) MailroomID() kernel.UUID {
	return q.mailroomID
}

func (q GetFailuresQuery) Limit() int {
	return q.limit
}

// FailureView is a failure record as shown to staff.
type FailureView struct {
	ID        kernel.UUID
	Kind      failure.Kind
	PackageID *kernel.UUID
	StaffID   *kernel.UUID
	StudentID string
	Provider  string
	Reason    string
	CreatedAt time.Time
}
