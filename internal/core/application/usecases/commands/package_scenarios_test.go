package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mailroom/internal/adapters/out/inmemory"
	"mailroom/internal/core/application/usecases/commands"
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

// shelfRepository keeps packages in memory and enforces one live package per
// number, like the live-number index on the packages table.
type shelfRepository struct {
	mu       sync.Mutex
	packages map[kernel.UUID]*parcel.Parcel
	addErr   error
}

func newShelfRepository() *shelfRepository {
	return &shelfRepository{packages: make(map[kernel.UUID]*parcel.Parcel)}
}

func (s *shelfRepository) Add(_ context.Context, p *parcel.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addErr != nil {
		return s.addErr
	}
	number, _ := p.Number()
	for _, other := range s.packages {
		if n, live := other.Number(); live && n == number && other.MailroomID().IsEqual(p.MailroomID()) {
			return ports.ErrLiveNumberConflict
		}
	}
	s.packages[p.ID()] = p
	return nil
}

func (s *shelfRepository) Update(_ context.Context, p *parcel.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[p.ID()]; !ok {
		return errs.NewObjectNotFoundError("package", p.ID().String())
	}
	s.packages[p.ID()] = p
	return nil
}

func (s *shelfRepository) Get(_ context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.packages[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("package", id.String())
	}
	return p, nil
}

func (s *shelfRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	return s.Get(ctx, id)
}

func (s *shelfRepository) LiveNumbers(_ context.Context, mailroomID kernel.UUID) ([]pkgnumber.Number, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	numbers := make([]pkgnumber.Number, 0)
	for _, p := range s.packages {
		if n, live := p.Number(); live && p.MailroomID().IsEqual(mailroomID) {
			numbers = append(numbers, n)
		}
	}
	return numbers, nil
}

func (s *shelfRepository) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.packages)
}

type mailroomScenario struct {
	mailroomID kernel.UUID
	staffID    kernel.UUID
	shelf      *shelfRepository
	allocator  *inmemory.Allocator

	register   commands.RegisterPackageCommandHandler
	transition commands.TransitionPackageCommandHandler
}

func newMailroomScenario(t *testing.T) *mailroomScenario {
	t.Helper()
	mailroomID := kernel.NewUUID()
	clock := kernel.FixedClock{At: registeredAt}
	shelf := newShelfRepository()
	allocator := inmemory.NewAllocator(shelf, clock)

	recipient, err := resident.RestoreResident(kernel.NewUUID(), mailroomID, "S123", "Grace", "Hopper", "grace@example.edu")
	require.NoError(t, err)
	residents := new(MockResidentRepository)
	residents.On("GetByStudentID", mock.Anything, mailroomID, "S123").Return(recipient, nil)

	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("ParcelRepository").Return(shelf)
	uow.On("ResidentRepository").Return(residents)

	registrations := new(MockRegistrationUoWFactory)
	registrations.On("Create").Return(uow)
	transitions := new(MockParcelUoWFactory)
	transitions.On("Create").Return(uow)

	failures := new(MockFailureRepository)
	failures.On("Add", mock.Anything, mock.Anything).Return(nil)
	queue := new(MockNotificationQueue)
	queue.On("Enqueue", mock.Anything, mock.Anything)

	return &mailroomScenario{
		mailroomID: mailroomID,
		staffID:    kernel.NewUUID(),
		shelf:      shelf,
		allocator:  allocator,
		register:   commands.NewRegisterPackageCommandHandler(registrations, allocator, failures, queue, clock, nil),
		transition: commands.NewTransitionPackageCommandHandler(transitions, allocator, clock, nil),
	}
}

func (s *mailroomScenario) registerPackage(t *testing.T) (*parcel.Parcel, error) {
	t.Helper()
	cmd, err := commands.NewRegisterPackageCommand(s.mailroomID, s.staffID, "S123", "UPS")
	require.NoError(t, err)
	return s.register.Handle(t.Context(), cmd)
}

func (s *mailroomScenario) resolve(t *testing.T, p *parcel.Parcel) {
	t.Helper()
	cmd, err := commands.NewScopedTransitionPackageCommand(s.mailroomID, p.ID(), parcel.Resolved)
	require.NoError(t, err)
	resolved, err := s.transition.Handle(t.Context(), cmd)
	require.NoError(t, err)
	require.Equal(t, parcel.Resolved, resolved.Status())
}

func numberOf(t *testing.T, p *parcel.Parcel) int {
	t.Helper()
	n, live := p.Number()
	require.True(t, live)
	return n.Int()
}

func TestPackageScenario_ResolvedNumberIsReused(t *testing.T) {
	s := newMailroomScenario(t)

	first, err := s.registerPackage(t)
	require.NoError(t, err)
	assert.Equal(t, 1, numberOf(t, first))
	assert.Equal(t, parcel.Waiting, first.Status())

	s.resolve(t, first)
	_, live := first.Number()
	assert.False(t, live)

	second, err := s.registerPackage(t)
	require.NoError(t, err)
	assert.Equal(t, 1, numberOf(t, second))
}

func TestPackageScenario_FullMailroom(t *testing.T) {
	s := newMailroomScenario(t)

	registered := make([]*parcel.Parcel, 0, pkgnumber.Capacity)
	for i := 1; i <= pkgnumber.Capacity; i++ {
		p, err := s.registerPackage(t)
		require.NoError(t, err)
		require.Equal(t, i, numberOf(t, p))
		registered = append(registered, p)
	}

	_, err := s.registerPackage(t)
	var exhausted *pkgnumber.PoolExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.ErrorIs(t, err, pkgnumber.ErrPoolExhausted)
	assert.Equal(t, pkgnumber.Capacity, s.shelf.count())

	s.resolve(t, registered[436])

	retried, err := s.registerPackage(t)
	require.NoError(t, err)
	assert.Equal(t, 437, numberOf(t, retried))
}

func TestPackageScenario_FailedPersistReturnsNumberToPool(t *testing.T) {
	s := newMailroomScenario(t)

	kept, err := s.registerPackage(t)
	require.NoError(t, err)
	require.Equal(t, 1, numberOf(t, kept))

	s.shelf.addErr = errors.New("connection reset")
	_, err = s.registerPackage(t)
	require.ErrorIs(t, err, commands.ErrPersistenceFailure)
	s.shelf.addErr = nil

	n, err := s.allocator.Acquire(t.Context(), s.mailroomID)
	require.NoError(t, err)
	assert.Equal(t, 2, n.Int())
}
