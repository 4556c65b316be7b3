package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/services"
	"mailroom/internal/core/ports"
)

// ReconcileNumbersCommandHandler frees numbers that stayed reserved without a
// live package: registrations aborted between acquire and persist, and
// releases lost after a resolve.
type ReconcileNumbersCommandHandler struct {
	uowFactory ParcelUoWFactory
	allocator  ports.ReconcilableAllocator
	reconciler services.NumberReconciler
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewReconcileNumbersCommandHandler(
	uowFactory ParcelUoWFactory,
	allocator ports.ReconcilableAllocator,
	clock kernel.Clock,
	logger *slog.Logger,
) ReconcileNumbersCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ReconcileNumbersCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
		reconciler: services.NewNumberReconciler(),
		clock:      clock,
		logger:     logger.With("component", "ReconcileNumbers"),
	}
}

// Handle returns how many numbers were released. A failing mailroom does not
// stop the others; all failures are joined into the returned error.
func (h ReconcileNumbersCommandHandler) Handle(ctx context.Context, cmd ReconcileNumbersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	mailrooms, err := h.allocator.MailroomsWithReservations(ctx)
	if err != nil {
		return 0, NewPersistenceError("list mailrooms", err)
	}

	cutoff := h.clock.Now().Add(-cmd.GracePeriod())
	repo := h.uowFactory.Create().ParcelRepository()

	released := 0
	var failures []error
	for _, mailroomID := range mailrooms {
		n, err := h.reconcileMailroom(ctx, repo, mailroomID, cutoff)
		released += n
		if err != nil {
			failures = append(failures, fmt.Errorf("mailroom %s: %w", mailroomID, err))
		}
	}

	return released, errors.Join(failures...)
}

// reconcileMailroom reads live numbers before reservations, so a number that
// was live at the first read is never taken for an orphan. The release is
// conditional on the reservation still being older than cutoff: a number
// resolved and claimed again between the reads is kept.
func (h ReconcileNumbersCommandHandler) reconcileMailroom(
	ctx context.Context,
	repo ports.ParcelRepository,
	mailroomID kernel.UUID,
	cutoff time.Time,
) (int, error) {
	live, err := repo.LiveNumbers(ctx, mailroomID)
	if err != nil {
		return 0, NewPersistenceError("list live numbers", err)
	}

	reservations, err := h.allocator.Reservations(ctx, mailroomID)
	if err != nil {
		return 0, NewPersistenceError("list reservations", err)
	}

	released := 0
	for _, number := range h.reconciler.FindOrphans(reservations, live, cutoff) {
		ok, err := h.allocator.ReleaseIfReservedBefore(ctx, mailroomID, number, cutoff)
		if err != nil {
			return released, NewPersistenceError("release number", err)
		}
		if !ok {
			h.logger.DebugContext(ctx, "number claimed again since it was listed",
				"mailroom_id", mailroomID.String(),
				"number", number.Int(),
			)
			continue
		}
		released++
		h.logger.InfoContext(ctx, "released orphaned number",
			"mailroom_id", mailroomID.String(),
			"number", number.Int(),
		)
	}

	return released, nil
}
