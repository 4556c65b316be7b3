package queries

import (
	"context"

	"mailroom/internal/core/domain/model/parcel"

	"gorm.io/gorm"
)

// GetActivePackagesQueryHandler lists live packages for the shelf view.
type GetActivePackagesQueryHandler struct {
	db *gorm.DB
}

func NewGetActivePackagesQueryHandler(db *gorm.DB) GetActivePackagesQueryHandler {
	return GetActivePackagesQueryHandler{db: db}
}

func (h GetActivePackagesQueryHandler) Handle(
	ctx context.Context,
	query GetActivePackagesQuery,
) ([]PackageView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(
		`SELECT `+packageViewColumns+packageViewFrom+`
		WHERE p.mailroom_id = ? AND p.status IN ?
		ORDER BY p.package_id`,
		query.MailroomID().Google(), []int{int(parcel.Waiting), int(parcel.Retrieved)},
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]PackageView, 0)
	for rows.Next() {
		view, err := scanPackageView(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return packages, nil
}
