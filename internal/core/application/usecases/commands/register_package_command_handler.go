package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mailroom/internal/core/domain/model/failure"
	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/core/domain/model/resident"
	"mailroom/internal/core/ports"
	"mailroom/internal/pkg/errs"
)

// MaxRegistrationAttempts bounds how often a registration acquires a new
// number after the store reported the previous one as already live.
const MaxRegistrationAttempts = 3

// RegisterPackageCommandHandler runs the registration workflow:
// resolve the resident, acquire a number, persist the package in WAITING and
// queue the arrival notification.
//
// A number is never left reserved by a failed registration: if the package
// row cannot be written the number is released before the error is returned.
// The only exception is a live-number conflict, where the number is held by
// another package and is kept while a fresh one is acquired.
//
// ResidentNotFound and PoolExhausted leave no package row and no reserved
// number behind. Their only trace is a REGISTRATION_FAILED failure record,
// written best effort for staff follow-up; it is never read by allocation.
//
// Example:
//
//	cmd, _ := NewRegisterPackageCommand(mailroomID, staffID, "s1234567", "UPS")
//	p, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrResidentNotFound):
//	    // staff entered an unknown student id
//	case errors.Is(err, pkgnumber.ErrPoolExhausted):
//	    // mailroom is full
//	case err != nil:
//	    // storage failure
//	}
type RegisterPackageCommandHandler struct {
	uowFactory RegistrationUoWFactory
	allocator  ports.NumberAllocator
	failures   ports.FailureRepository
	queue      NotificationQueue
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewRegisterPackageCommandHandler(
	uowFactory RegistrationUoWFactory,
	allocator ports.NumberAllocator,
	failures ports.FailureRepository,
	queue NotificationQueue,
	clock kernel.Clock,
	logger *slog.Logger,
) RegisterPackageCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return RegisterPackageCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
		failures:   failures,
		queue:      queue,
		clock:      clock,
		logger:     logger.With("component", "RegisterPackage"),
	}
}

// Handle registers the package and returns it in WAITING with its number.
func (h RegisterPackageCommandHandler) Handle(ctx context.Context, cmd RegisterPackageCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	recipient, err := h.findResident(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var p *parcel.Parcel
	for attempt := 1; ; attempt++ {
		number, err := h.allocator.Acquire(ctx, cmd.MailroomID())
		if err != nil {
			return nil, h.acquireFailed(ctx, cmd, err)
		}

		p, err = parcel.NewParcel(
			kernel.NewUUID(),
			cmd.MailroomID(),
			recipient.ID(),
			cmd.StaffID(),
			cmd.Provider(),
			number,
			h.clock.Now(),
		)
		if err != nil {
			h.release(ctx, cmd.MailroomID(), number)
			return nil, err
		}

		err = h.persist(ctx, p)
		if err == nil {
			break
		}

		if errors.Is(err, ports.ErrLiveNumberConflict) {
			h.logger.WarnContext(ctx, "number already held by a live package",
				"mailroom_id", cmd.MailroomID().String(),
				"number", number.Int(),
				"attempt", attempt,
			)
			if attempt < MaxRegistrationAttempts {
				continue
			}
		} else {
			h.release(ctx, cmd.MailroomID(), number)
		}

		h.recordFailure(ctx, cmd, "package could not be saved")
		return nil, NewPersistenceError("persist package", err)
	}

	h.logger.InfoContext(ctx, "package registered",
		"mailroom_id", cmd.MailroomID().String(),
		"package_id", p.ID().String(),
		"number", p.RecordedNumber().Int(),
	)

	h.notify(ctx, recipient, p)
	return p, nil
}

func (h RegisterPackageCommandHandler) findResident(ctx context.Context, cmd RegisterPackageCommand) (*resident.Resident, error) {
	uow := h.uowFactory.Create()
	recipient, err := uow.ResidentRepository().GetByStudentID(ctx, cmd.MailroomID(), cmd.StudentID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.recordFailure(ctx, cmd, "resident not found")
		return nil, NewResidentNotFoundError(cmd.MailroomID().String(), cmd.StudentID())
	}
	if err != nil {
		return nil, NewPersistenceError("find resident", err)
	}
	return recipient, nil
}

func (h RegisterPackageCommandHandler) acquireFailed(ctx context.Context, cmd RegisterPackageCommand, err error) error {
	var exhausted *pkgnumber.PoolExhaustedError
	if errors.As(err, &exhausted) {
		h.logger.WarnContext(ctx, "mailroom is full", "mailroom_id", cmd.MailroomID().String())
		h.recordFailure(ctx, cmd, "mailroom is full")
		return err
	}
	return NewPersistenceError("acquire number", err)
}

func (h RegisterPackageCommandHandler) persist(ctx context.Context, p *parcel.Parcel) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ParcelRepository().Add(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// release hands back a number of an aborted registration. It must happen
// even when the request context is already cancelled.
func (h RegisterPackageCommandHandler) release(ctx context.Context, mailroomID kernel.UUID, number pkgnumber.Number) {
	if err := h.allocator.Release(context.WithoutCancel(ctx), mailroomID, number); err != nil {
		h.logger.ErrorContext(ctx, "failed to release number of aborted registration",
			"mailroom_id", mailroomID.String(),
			"number", number.Int(),
			"error", err,
		)
	}
}

func (h RegisterPackageCommandHandler) recordFailure(ctx context.Context, cmd RegisterPackageCommand, reason string) {
	record, err := failure.NewRegistrationFailure(
		kernel.NewUUID(),
		cmd.MailroomID(),
		cmd.StaffID(),
		cmd.StudentID(),
		cmd.Provider(),
		reason,
		h.clock.Now(),
	)
	if err == nil {
		err = h.failures.Add(context.WithoutCancel(ctx), record)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record registration failure",
			"mailroom_id", cmd.MailroomID().String(),
			"reason", reason,
			"error", err,
		)
	}
}

func (h RegisterPackageCommandHandler) notify(ctx context.Context, recipient *resident.Resident, p *parcel.Parcel) {
	if !recipient.CanBeNotified() {
		record, err := failure.NewNotificationFailure(
			kernel.NewUUID(),
			p.MailroomID(),
			p.ID(),
			recipient.StudentID(),
			"resident has no email address",
			h.clock.Now(),
		)
		if err == nil {
			err = h.failures.Add(context.WithoutCancel(ctx), record)
		}
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to record notification failure",
				"package_id", p.ID().String(),
				"error", fmt.Errorf("resident without email: %w", err),
			)
		}
		return
	}

	h.queue.Enqueue(ctx, ports.Notification{
		MailroomID:    p.MailroomID(),
		ParcelID:      p.ID(),
		StudentID:     recipient.StudentID(),
		RecipientName: recipient.FullName(),
		Email:         recipient.Email(),
		PackageNumber: p.RecordedNumber().Int(),
		Provider:      p.Provider(),
	})
}
