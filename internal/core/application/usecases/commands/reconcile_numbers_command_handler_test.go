package commands_test

import (
	"errors"
	"testing"
	"time"

	"mailroom/internal/core/application/usecases/commands"
	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/pkgnumber"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconcileNumbersCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2024, 9, 4, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-time.Hour)
	recent := now.Add(-time.Minute)
	mailroomID := kernel.NewUUID()

	repo := new(MockParcelRepository)
	uow := new(MockUoW)
	uow.On("ParcelRepository").Return(repo).Once()
	factory := new(MockParcelUoWFactory)
	factory.On("Create").Return(uow).Once()

	cutoff := now.Add(-10 * time.Minute)

	allocator := new(MockAllocator)
	allocator.On("MailroomsWithReservations", ctx).Return([]kernel.UUID{mailroomID}, nil).Once()
	allocator.On("Reservations", ctx, mailroomID).Return([]pkgnumber.Reservation{
		{Number: pkgnumber.MustNumber(1), ReservedAt: stale},
		{Number: pkgnumber.MustNumber(2), ReservedAt: stale},
		{Number: pkgnumber.MustNumber(3), ReservedAt: recent},
		{Number: pkgnumber.MustNumber(4), ReservedAt: stale},
	}, nil).Once()
	repo.On("LiveNumbers", ctx, mailroomID).Return([]pkgnumber.Number{pkgnumber.MustNumber(1)}, nil).Once()
	allocator.On("ReleaseIfReservedBefore", ctx, mailroomID, pkgnumber.MustNumber(2), cutoff).Return(true, nil).Once()
	// claimed again after the reservations were listed
	allocator.On("ReleaseIfReservedBefore", ctx, mailroomID, pkgnumber.MustNumber(4), cutoff).Return(false, nil).Once()

	h := commands.NewReconcileNumbersCommandHandler(factory, allocator, kernel.FixedClock{At: now}, nil)
	cmd, err := commands.NewReconcileNumbersCommand(10 * time.Minute)
	require.NoError(t, err)

	released, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, released)
	allocator.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	allocator.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestReconcileNumbersCommandHandler_Handle_ContinuesAfterMailroomError(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2024, 9, 4, 12, 0, 0, 0, time.UTC)
	broken := kernel.NewUUID()
	healthy := kernel.NewUUID()
	cause := errors.New("timeout")

	repo := new(MockParcelRepository)
	uow := new(MockUoW)
	uow.On("ParcelRepository").Return(repo).Once()
	factory := new(MockParcelUoWFactory)
	factory.On("Create").Return(uow).Once()

	allocator := new(MockAllocator)
	allocator.On("MailroomsWithReservations", ctx).Return([]kernel.UUID{broken, healthy}, nil).Once()
	repo.On("LiveNumbers", ctx, broken).Return(nil, cause).Once()
	repo.On("LiveNumbers", ctx, healthy).Return([]pkgnumber.Number{}, nil).Once()
	allocator.On("Reservations", ctx, healthy).Return([]pkgnumber.Reservation{
		{Number: pkgnumber.MustNumber(40), ReservedAt: now.Add(-time.Hour)},
	}, nil).Once()
	allocator.On("ReleaseIfReservedBefore", ctx, healthy, pkgnumber.MustNumber(40), now.Add(-10*time.Minute)).
		Return(true, nil).Once()

	h := commands.NewReconcileNumbersCommandHandler(factory, allocator, kernel.FixedClock{At: now}, nil)
	cmd, err := commands.NewReconcileNumbersCommand(10 * time.Minute)
	require.NoError(t, err)

	released, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, 1, released)
	allocator.AssertNotCalled(t, "Reservations", mock.Anything, broken)
	allocator.AssertExpectations(t)
}

func TestReconcileNumbersCommandHandler_Handle_ListError(t *testing.T) {
	ctx := t.Context()
	allocator := new(MockAllocator)
	allocator.On("MailroomsWithReservations", ctx).Return(nil, errors.New("down")).Once()

	h := commands.NewReconcileNumbersCommandHandler(new(MockParcelUoWFactory), allocator, kernel.SystemClock{}, nil)
	cmd, err := commands.NewReconcileNumbersCommand(time.Minute)
	require.NoError(t, err)

	released, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrPersistenceFailure)
	assert.Zero(t, released)
}
