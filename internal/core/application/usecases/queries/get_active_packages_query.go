package queries

import (
	"errors"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/pkg/guard"
)

var ErrGetActivePackagesQueryIsNotConstructed = errors.New(
	"GetActivePackagesQuery must be created via NewGetActivePackagesQuery constructor",
)

// GetActivePackagesQuery lists the packages of a mailroom that are still on
// the shelf (WAITING or RETRIEVED), ordered by number.
type GetActivePackagesQuery struct {
	mailroomID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetActivePackagesQuery(mailroomID kernel.UUID) (GetActivePackagesQuery, error) {
	if err := mailroomID.Validate(); err != nil {
		return GetActivePackagesQuery{}, err
	}
	return GetActivePackagesQuery{mailroomID: mailroomID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActivePackagesQuery) Validate() error {
	return q.guard.Validate(ErrGetActivePackagesQueryIsNotConstructed)
}

func (q GetActivePackagesQuery) MailroomID() kernel.UUID {
	return q.mailroomID
}
