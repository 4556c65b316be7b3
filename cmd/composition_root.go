package cmd

import (
	"log/slog"

	httpadapter "mailroom/internal/adapters/in/http"
	"mailroom/internal/adapters/out/inmemory"
	"mailroom/internal/adapters/out/notification"
	"mailroom/internal/adapters/out/postgres"
	"mailroom/internal/adapters/out/postgres/failurerepo"
	"mailroom/internal/adapters/out/postgres/numberpool"
	"mailroom/internal/adapters/out/postgres/staffrepo"
	"mailroom/internal/adapters/out/session"
	"mailroom/internal/core/application/usecases/commands"
	"mailroom/internal/core/application/usecases/queries"
	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/ports"
	"mailroom/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	logger     *slog.Logger

	allocator  ports.ReconcilableAllocator
	dispatcher *notification.Dispatcher
	sessions   ports.SessionValidator
	staff      ports.StaffDirectory
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	clock := kernel.SystemClock{}
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)

	sessions, err := session.NewJWTValidator(configs.JWTSecret, configs.JWTIssuer, clock)
	if err != nil {
		return nil, err
	}

	var allocator ports.ReconcilableAllocator
	switch configs.AllocatorBackend {
	case AllocatorBackendMemory:
		allocator = inmemory.NewAllocator(uowFactory.Create().ParcelRepository(), clock)
	default:
		allocator = numberpool.NewGormAllocator(gormDB, clock)
	}

	var sender ports.NotificationSender = notification.NewLogSender(logger)
	if configs.SMTPHost != "" {
		sender = notification.NewSMTPSender(notification.SMTPConfig{
			Host:     configs.SMTPHost,
			Port:     configs.SMTPPort,
			Username: configs.SMTPUsername,
			Password: configs.SMTPPassword,
			From:     configs.SMTPFrom,
		})
	}

	dispatcher := notification.NewDispatcher(
		sender,
		failurerepo.NewGormFailureRepository(gormDB),
		clock,
		logger,
		configs.NotificationQueueSize,
		configs.NotificationSendTimeout,
	)

	return &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger,
		allocator:  allocator,
		dispatcher: dispatcher,
		sessions:   sessions,
		staff:      staffrepo.NewGormStaffDirectory(gormDB),
	}, nil
}

// Dispatcher is the notification queue shared by all registrations.
func (c *CompositionRoot) Dispatcher() *notification.Dispatcher {
	return c.dispatcher
}

func (c *CompositionRoot) CreateRegisterPackageCommandHandler() commands.RegisterPackageCommandHandler {
	var f commands.RegistrationUoWFactory = FuncRegistrationUoWFactory(func() commands.RegistrationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterPackageCommandHandler(
		f,
		c.allocator,
		failurerepo.NewGormFailureRepository(c.gormDB),
		c.dispatcher,
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateTransitionPackageCommandHandler() commands.TransitionPackageCommandHandler {
	return commands.NewTransitionPackageCommandHandler(c.parcelUoWFactory(), c.allocator, c.clock, c.logger)
}

func (c *CompositionRoot) CreateReconcileNumbersCommandHandler() commands.ReconcileNumbersCommandHandler {
	return commands.NewReconcileNumbersCommandHandler(c.parcelUoWFactory(), c.allocator, c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetPackageQueryHandler() queries.GetPackageQueryHandler {
	return queries.NewGetPackageQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActivePackagesQueryHandler() queries.GetActivePackagesQueryHandler {
	return queries.NewGetActivePackagesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetFailuresQueryHandler() queries.GetFailuresQueryHandler {
	return queries.NewGetFailuresQueryHandler(c.gormDB)
}

// CreateHTTPServer wires the API handlers into an echo instance.
func (c *CompositionRoot) CreateHTTPServer() (*echo.Echo, error) {
	server := httpadapter.NewServer(
		c.CreateRegisterPackageCommandHandler(),
		c.CreateTransitionPackageCommandHandler(),
		c.CreateGetPackageQueryHandler(),
		c.CreateGetActivePackagesQueryHandler(),
		c.CreateGetFailuresQueryHandler(),
	)
	return httpadapter.NewRouter(server, c.sessions, c.staff, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateReconcileNumbersCommandHandler(),
		c.configs.ReconcileSchedule,
		c.configs.ReconcileGrace,
		c.logger,
	)
}

func (c *CompositionRoot) parcelUoWFactory() commands.ParcelUoWFactory {
	return FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
}

type FuncRegistrationUoWFactory func() commands.RegistrationUoW

func (f FuncRegistrationUoWFactory) Create() commands.RegistrationUoW {
	return f()
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}
