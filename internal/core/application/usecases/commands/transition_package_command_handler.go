package commands

import (
	"context"
	"log/slog"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/ports"
	"mailroom/internal/pkg/errs"
)

// TransitionPackageCommandHandler moves a package through its lifecycle.
//
// The package row is locked for the duration of the transaction, so two
// concurrent resolves of the same package are serialized and the second one
// is rejected by the transition table. The number is handed back to the
// allocator only after the RESOLVED status is committed; if that release
// fails the number stays reserved until reconciliation frees it.
type TransitionPackageCommandHandler struct {
	uowFactory ParcelUoWFactory
	allocator  ports.NumberAllocator
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewTransitionPackageCommandHandler(
	uowFactory ParcelUoWFactory,
	allocator ports.NumberAllocator,
	clock kernel.Clock,
	logger *slog.Logger,
) TransitionPackageCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return TransitionPackageCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
		clock:      clock,
		logger:     logger.With("component", "TransitionPackage"),
	}
}

// Handle applies the transition and returns the updated package.
// Returns *parcel.InvalidTransitionError for pairs the table does not allow
// and errs.ObjectNotFoundError for unknown packages.
func (h TransitionPackageCommandHandler) Handle(ctx context.Context, cmd TransitionPackageCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, NewPersistenceError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ParcelRepository()
	p, err := repo.GetForUpdate(ctx, cmd.PackageID())
	if err != nil {
		return nil, err
	}

	if mailroomID, ok := cmd.MailroomID(); ok && !p.MailroomID().IsEqual(mailroomID) {
		return nil, errs.NewObjectNotFoundError("package", cmd.PackageID().String())
	}

	tr, err := p.TransitionTo(cmd.Target(), h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, p); err != nil {
		return nil, NewPersistenceError("update package", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, NewPersistenceError("commit transition", err)
	}

	h.logger.InfoContext(ctx, "package status changed",
		"package_id", p.ID().String(),
		"from", tr.From.String(),
		"to", tr.To.String(),
	)

	if !tr.Released.IsZero() {
		if err = h.allocator.Release(context.WithoutCancel(ctx), p.MailroomID(), tr.Released); err != nil {
			h.logger.ErrorContext(ctx, "failed to release number of resolved package",
				"package_id", p.ID().String(),
				"number", tr.Released.Int(),
				"error", err,
			)
		}
	}

	return p, nil
}
