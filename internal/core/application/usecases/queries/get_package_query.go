package queries

import (
	"errors"
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/pkg/guard"
)

var ErrGetPackageQueryIsNotConstructed = errors.New(
	"GetPackageQuery must be created via NewGetPackageQuery constructor",
)

// GetPackageQuery retrieves one package of a mailroom. A package that exists
// in another mailroom is reported as not found.
//
// Example:
//
//	query, err := NewGetPackageQuery(mailroomID, packageID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetPackageQuery struct {
	mailroomID kernel.UUID
	packageID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetPackageQuery(mailroomID, packageID kernel.UUID) (GetPackageQuery, error) {
	if err := errors.Join(mailroomID.Validate(), packageID.Validate()); err != nil {
		return GetPackageQuery{}, err
	}
	return GetPackageQuery{
		mailroomID: mailroomID,
		packageID:  packageID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetPackageQuery) Validate() error {
	return q.guard.Validate(ErrGetPackageQueryIsNotConstructed)
}

func (q GetPackageQuery) MailroomID() kernel.UUID {
	return q.mailroomID
}

func (q GetPackageQuery) PackageID() kernel.UUID {
	return q.packageID
}

// PackageView is the read model of a package shown to staff.
// Number is nil once the package left the shelf: the number may already
// belong to another package.
type PackageView struct {
	ID           kernel.UUID
	MailroomID   kernel.UUID
	ResidentID   kernel.UUID
	StudentID    string
	ResidentName string
	StaffID      kernel.UUID
	Number       *int
	Provider     string
	Status       parcel.Status
	CreatedAt    time.Time
	RetrievedAt  *time.Time
	ResolvedAt   *time.Time
}
