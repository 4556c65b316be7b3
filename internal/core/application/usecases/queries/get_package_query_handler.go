package queries

import (
	"context"

	"mailroom/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetPackageQueryHandler reads a single package with its resident.
type GetPackageQueryHandler struct {
	db *gorm.DB
}

func NewGetPackageQueryHandler(db *gorm.DB) GetPackageQueryHandler {
	return GetPackageQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the package does not exist in
// the queried mailroom.
func (h GetPackageQueryHandler) Handle(ctx context.Context, query GetPackageQuery) (PackageView, error) {
	if err := query.Validate(); err != nil {
		return PackageView{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(
		`SELECT `+packageViewColumns+packageViewFrom+`
		WHERE p.id = ? AND p.mailroom_id = ?`,
		query.PackageID().Google(), query.MailroomID().Google(),
	).Rows()
	if err != nil {
		return PackageView{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return PackageView{}, err
		}
		return PackageView{}, errs.NewObjectNotFoundError("package", query.PackageID().String())
	}

	return scanPackageView(rows)
}
