package cmd

import (
	"log/slog"
	"time"

	httpin "shiptrack/internal/adapters/in/http"
	"shiptrack/internal/adapters/out/postgres"
	"shiptrack/internal/core/application/usecases/commands"
	"shiptrack/internal/core/application/usecases/queries"
	"shiptrack/internal/core/ports"
	"shiptrack/internal/jobs"
	"shiptrack/internal/notifications"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	queue      ports.NotificationQueue
	sender     ports.MessageSender
	logger     *slog.Logger
}

func NewCompositionRoot(
	_ Config,
	gormDB *gorm.DB,
	queue ports.NotificationQueue,
	sender ports.MessageSender,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		queue:      queue,
		sender:     sender,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateShipmentCommandHandler(f)
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() commands.ApplyTransitionCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyTransitionCommandHandler(f, c.queue, nil, c.logger)
}

func (c *CompositionRoot) CreateAssignShipmentCommandHandler() commands.AssignShipmentCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	transitions := c.CreateApplyTransitionCommandHandler()
	return commands.NewAssignShipmentCommandHandler(f, &transitions, c.logger)
}

func (c *CompositionRoot) CreateSubmitPODCommandHandler() commands.SubmitPODCommandHandler {
	var f commands.PODUoWFactory = FuncPODUoWFactory(func() commands.PODUoW {
		return c.uowFactory.Create()
	})
	transitions := c.CreateApplyTransitionCommandHandler()
	return commands.NewSubmitPODCommandHandler(f, &transitions, c.logger)
}

func (c *CompositionRoot) CreateSyncPODBatchCommandHandler() commands.SyncPODBatchCommandHandler {
	submit := c.CreateSubmitPODCommandHandler()
	return commands.NewSyncPODBatchCommandHandler(&submit, c.logger)
}

func (c *CompositionRoot) CreateGetShipmentEventsQueryHandler() queries.GetShipmentEventsQueryHandler {
	return queries.NewGetShipmentEventsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateTrackShipmentQueryHandler() queries.TrackShipmentQueryHandler {
	return queries.NewTrackShipmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateDispatcher() (*notifications.Dispatcher, error) {
	return notifications.NewDispatcher(&c.uowFactory, c.sender, nil, c.logger)
}

func (c *CompositionRoot) CreateJobManager(
	staleAfter time.Duration, maxAttempts int,
) *jobs.JobManager {
	return jobs.NewJobManager(&c.uowFactory, c.queue, staleAfter, maxAttempts, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateShipmentCommandHandler(),
		c.CreateApplyTransitionCommandHandler(),
		c.CreateAssignShipmentCommandHandler(),
		c.CreateSubmitPODCommandHandler(),
		c.CreateSyncPODBatchCommandHandler(),
		c.CreateGetShipmentEventsQueryHandler(),
		c.CreateTrackShipmentQueryHandler(),
	)
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncTransitionUoWFactory func() commands.TransitionUoW

func (f FuncTransitionUoWFactory) Create() commands.TransitionUoW {
	return f()
}

type FuncPODUoWFactory func() commands.PODUoW

func (f FuncPODUoWFactory) Create() commands.PODUoW {
	return f()
}
