package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mailroom/internal/core/application/usecases/commands"
	"mailroom/internal/core/domain/model/failure"
	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/core/domain/model/resident"
	"mailroom/internal/core/ports"
	"mailroom/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var registeredAt = time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)

type registerFixture struct {
	mailroomID kernel.UUID
	staffID    kernel.UUID

	residents *MockResidentRepository
	parcels   *MockParcelRepository
	uow       *MockUoW
	factory   *MockRegistrationUoWFactory
	allocator *MockAllocator
	failures  *MockFailureRepository
	queue     *MockNotificationQueue

	handler commands.RegisterPackageCommandHandler
}

func newRegisterFixture() *registerFixture {
	f := &registerFixture{
		mailroomID: kernel.NewUUID(),
		staffID:    kernel.NewUUID(),
		residents:  new(MockResidentRepository),
		parcels:    new(MockParcelRepository),
		uow:        new(MockUoW),
		factory:    new(MockRegistrationUoWFactory),
		allocator:  new(MockAllocator),
		failures:   new(MockFailureRepository),
		queue:      new(MockNotificationQueue),
	}
	f.factory.On("Create").Return(f.uow)
	f.uow.On("ResidentRepository").Return(f.residents).Maybe()
	f.uow.On("ParcelRepository").Return(f.parcels).Maybe()
	f.handler = commands.NewRegisterPackageCommandHandler(
		f.factory, f.allocator, f.failures, f.queue, kernel.FixedClock{At: registeredAt}, nil,
	)
	return f
}

func (f *registerFixture) resident(t *testing.T, email string) *resident.Resident {
	t.Helper()
	r, err := resident.RestoreResident(kernel.NewUUID(), f.mailroomID, "S1234567", "Ada", "Lovelace", email)
	require.NoError(t, err)
	return r
}

func (f *registerFixture) command(t *testing.T) commands.RegisterPackageCommand {
	t.Helper()
	cmd, err := commands.NewRegisterPackageCommand(f.mailroomID, f.staffID, " s1234567 ", "UPS")
	require.NoError(t, err)
	return cmd
}

func (f *registerFixture) expectTransaction(ctx context.Context, times int) {
	f.uow.On("Begin", ctx).Return(nil).Times(times)
	f.uow.On("Rollback", ctx).Return(nil).Times(times)
}

func (f *registerFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.residents.AssertExpectations(t)
	f.parcels.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.allocator.AssertExpectations(t)
	f.failures.AssertExpectations(t)
	f.queue.AssertExpectations(t)
}

func isRegistrationFailure(reason string) any {
	return mock.MatchedBy(func(r *failure.Record) bool {
		return r.Kind() == failure.RegistrationFailed && r.Reason() == reason
	})
}

func TestRegisterPackageCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()
	recipient := f.resident(t, "ada@example.edu")

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").Return(recipient, nil).Once()
	f.allocator.On("Acquire", ctx, f.mailroomID).Return(pkgnumber.MustNumber(1), nil).Once()
	f.expectTransaction(ctx, 1)
	f.parcels.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.queue.On("Enqueue", ctx, mock.MatchedBy(func(n ports.Notification) bool {
		return n.PackageNumber == 1 &&
			n.Email == "ada@example.edu" &&
			n.RecipientName == "Ada Lovelace" &&
			n.Provider == "UPS"
	})).Once()

	p, err := f.handler.Handle(ctx, f.command(t))

	require.NoError(t, err)
	assert.Equal(t, parcel.Waiting, p.Status())
	number, ok := p.Number()
	require.True(t, ok)
	assert.Equal(t, 1, number.Int())
	assert.True(t, p.ResidentID().IsEqual(recipient.ID()))
	assert.True(t, p.StaffID().IsEqual(f.staffID))
	assert.Equal(t, registeredAt, p.CreatedAt())
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_ValidationError(t *testing.T) {
	f := newRegisterFixture()

	_, err := f.handler.Handle(t.Context(), commands.RegisterPackageCommand{})

	require.ErrorIs(t, err, commands.ErrRegisterPackageCommandIsNotConstructed)
	f.allocator.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
}

func TestRegisterPackageCommandHandler_Handle_ResidentNotFound(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").
		Return(nil, errs.NewObjectNotFoundError("resident", "S1234567")).Once()
	f.failures.On("Add", mock.Anything, isRegistrationFailure("resident not found")).Return(nil).Once()

	p, err := f.handler.Handle(ctx, f.command(t))

	require.ErrorIs(t, err, commands.ErrResidentNotFound)
	var notFound *commands.ResidentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "S1234567", notFound.StudentID)
	assert.Nil(t, p)
	f.allocator.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
	f.parcels.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_FailureRecordErrorIsNotFatal(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").
		Return(nil, errs.NewObjectNotFoundError("resident", "S1234567")).Once()
	f.failures.On("Add", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	_, err := f.handler.Handle(ctx, f.command(t))

	require.ErrorIs(t, err, commands.ErrResidentNotFound)
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_ResidentLookupError(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()
	cause := errors.New("connection refused")

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").Return(nil, cause).Once()

	_, err := f.handler.Handle(ctx, f.command(t))

	require.ErrorIs(t, err, commands.ErrPersistenceFailure)
	require.ErrorIs(t, err, cause)
	f.allocator.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_PoolExhausted(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").
		Return(f.resident(t, "ada@example.edu"), nil).Once()
	f.allocator.On("Acquire", ctx, f.mailroomID).
		Return(nil, pkgnumber.NewPoolExhaustedError(f.mailroomID.String())).Once()
	f.failures.On("Add", mock.Anything, isRegistrationFailure("mailroom is full")).Return(nil).Once()

	p, err := f.handler.Handle(ctx, f.command(t))

	require.ErrorIs(t, err, pkgnumber.ErrPoolExhausted)
	var exhausted *pkgnumber.PoolExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, f.mailroomID.String(), exhausted.MailroomID)
	assert.Nil(t, p)
	f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	f.parcels.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.allocator.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	f.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_PersistFailureReleasesNumber(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()
	cause := errors.New("disk full")
	number := pkgnumber.MustNumber(7)

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").
		Return(f.resident(t, "ada@example.edu"), nil).Once()
	f.allocator.On("Acquire", ctx, f.mailroomID).Return(number, nil).Once()
	f.expectTransaction(ctx, 1)
	f.parcels.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).Return(cause).Once()
	f.allocator.On("Release", mock.Anything, f.mailroomID, number).Return(nil).Once()
	f.failures.On("Add", mock.Anything, isRegistrationFailure("package could not be saved")).Return(nil).Once()

	p, err := f.handler.Handle(ctx, f.command(t))

	require.ErrorIs(t, err, commands.ErrPersistenceFailure)
	require.ErrorIs(t, err, cause)
	assert.Nil(t, p)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_CommitFailureReleasesNumber(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()
	number := pkgnumber.MustNumber(3)

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").
		Return(f.resident(t, "ada@example.edu"), nil).Once()
	f.allocator.On("Acquire", ctx, f.mailroomID).Return(number, nil).Once()
	f.expectTransaction(ctx, 1)
	f.parcels.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(errors.New("serialization failure")).Once()
	f.allocator.On("Release", mock.Anything, f.mailroomID, number).Return(nil).Once()
	f.failures.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.handler.Handle(ctx, f.command(t))

	require.ErrorIs(t, err, commands.ErrPersistenceFailure)
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_ReleaseSurvivesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	f := newRegisterFixture()
	number := pkgnumber.MustNumber(12)

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").
		Return(f.resident(t, "ada@example.edu"), nil).Once()
	f.allocator.On("Acquire", ctx, f.mailroomID).Return(number, nil).Once()
	f.expectTransaction(ctx, 1)
	f.parcels.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).
		Run(func(mock.Arguments) { cancel() }).
		Return(context.Canceled).Once()
	f.allocator.On("Release", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), f.mailroomID, number).Return(nil).Once()
	f.failures.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.handler.Handle(ctx, f.command(t))

	require.ErrorIs(t, err, context.Canceled)
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_LiveNumberConflictRetries(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").
		Return(f.resident(t, "ada@example.edu"), nil).Once()
	f.allocator.On("Acquire", ctx, f.mailroomID).Return(pkgnumber.MustNumber(1), nil).Once()
	f.allocator.On("Acquire", ctx, f.mailroomID).Return(pkgnumber.MustNumber(2), nil).Once()
	f.expectTransaction(ctx, 2)
	f.parcels.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).Return(ports.ErrLiveNumberConflict).Once()
	f.parcels.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.queue.On("Enqueue", ctx, mock.Anything).Once()

	p, err := f.handler.Handle(ctx, f.command(t))

	require.NoError(t, err)
	assert.Equal(t, 2, p.RecordedNumber().Int())
	f.allocator.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_LiveNumberConflictGivesUp(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").
		Return(f.resident(t, "ada@example.edu"), nil).Once()
	f.allocator.On("Acquire", ctx, f.mailroomID).
		Return(pkgnumber.MustNumber(4), nil).Times(commands.MaxRegistrationAttempts)
	f.expectTransaction(ctx, commands.MaxRegistrationAttempts)
	f.parcels.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).
		Return(ports.ErrLiveNumberConflict).Times(commands.MaxRegistrationAttempts)
	f.failures.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.handler.Handle(ctx, f.command(t))

	require.ErrorIs(t, err, commands.ErrPersistenceFailure)
	require.ErrorIs(t, err, ports.ErrLiveNumberConflict)
	f.allocator.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestRegisterPackageCommandHandler_Handle_ResidentWithoutEmail(t *testing.T) {
	ctx := t.Context()
	f := newRegisterFixture()

	f.residents.On("GetByStudentID", ctx, f.mailroomID, "S1234567").Return(f.resident(t, ""), nil).Once()
	f.allocator.On("Acquire", ctx, f.mailroomID).Return(pkgnumber.MustNumber(9), nil).Once()
	f.expectTransaction(ctx, 1)
	f.parcels.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.failures.On("Add", mock.Anything, mock.MatchedBy(func(r *failure.Record) bool {
		return r.Kind() == failure.NotificationFailed && r.ParcelID() != nil
	})).Return(nil).Once()

	p, err := f.handler.Handle(ctx, f.command(t))

	require.NoError(t, err)
	assert.Equal(t, parcel.Waiting, p.Status())
	f.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	f.allocator.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}
