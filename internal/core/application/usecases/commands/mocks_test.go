package commands_test

import (
	"context"
	"time"

	"mailroom/internal/core/application/usecases/commands"
	"mailroom/internal/core/domain/model/failure"
	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/core/domain/model/resident"
	"mailroom/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*parcel.Parcel)
	return p, args.Error(1)
}

func (m *MockParcelRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*parcel.Parcel)
	return p, args.Error(1)
}

func (m *MockParcelRepository) LiveNumbers(ctx context.Context, mailroomID kernel.UUID) ([]pkgnumber.Number, error) {
	args := m.Called(ctx, mailroomID)
	numbers, _ := args.Get(0).([]pkgnumber.Number)
	return numbers, args.Error(1)
}

type MockResidentRepository struct{ mock.Mock }

func (m *MockResidentRepository) GetByStudentID(
	ctx context.Context,
	mailroomID kernel.UUID,
	studentID string,
) (*resident.Resident, error) {
	args := m.Called(ctx, mailroomID, studentID)
	r, _ := args.Get(0).(*resident.Resident)
	return r, args.Error(1)
}

type MockFailureRepository struct{ mock.Mock }

func (m *MockFailureRepository) Add(ctx context.Context, record *failure.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockAllocator struct{ mock.Mock }

func (m *MockAllocator) Acquire(ctx context.Context, mailroomID kernel.UUID) (pkgnumber.Number, error) {
	args := m.Called(ctx, mailroomID)
	n, _ := args.Get(0).(pkgnumber.Number)
	return n, args.Error(1)
}

func (m *MockAllocator) Release(ctx context.Context, mailroomID kernel.UUID, number pkgnumber.Number) error {
	args := m.Called(ctx, mailroomID, number)
	return args.Error(0)
}

func (m *MockAllocator) MailroomsWithReservations(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

func (m *MockAllocator) Reservations(ctx context.Context, mailroomID kernel.UUID) ([]pkgnumber.Reservation, error) {
	args := m.Called(ctx, mailroomID)
	r, _ := args.Get(0).([]pkgnumber.Reservation)
	return r, args.Error(1)
}

func (m *MockAllocator) ReleaseIfReservedBefore(
	ctx context.Context,
	mailroomID kernel.UUID,
	number pkgnumber.Number,
	cutoff time.Time,
) (bool, error) {
	args := m.Called(ctx, mailroomID, number, cutoff)
	return args.Bool(0), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}

func (m *MockUoW) ResidentRepository() ports.ResidentRepository {
	args := m.Called()
	return args.Get(0).(ports.ResidentRepository)
}

type MockRegistrationUoWFactory struct{ mock.Mock }

func (m *MockRegistrationUoWFactory) Create() commands.RegistrationUoW {
	args := m.Called()
	return args.Get(0).(commands.RegistrationUoW)
}

type MockParcelUoWFactory struct{ mock.Mock }

func (m *MockParcelUoWFactory) Create() commands.ParcelUoW {
	args := m.Called()
	return args.Get(0).(commands.ParcelUoW)
}

type MockNotificationQueue struct{ mock.Mock }

func (m *MockNotificationQueue) Enqueue(ctx context.Context, n ports.Notification) {
	m.Called(ctx, n)
}
