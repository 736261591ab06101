package cmd

import (
	"errors"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/outboxrepo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/logger"
	"marketplace/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg           Config
	gormDB        *gorm.DB
	uowFactory    *postgres.GormUnitOfWorkFactory
	outbox        *outboxrepo.GormOutboxRepository
	orderMetrics  *metrics.OrderMetrics
	jobMetrics    *metrics.JobMetrics
	events        *commands.EventDispatcher
	minimumPayout decimal.Decimal
	log           *logger.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, reg prometheus.Registerer, log *logger.Logger) (*CompositionRoot, error) {
	minimum, err := cfg.Payout.MinimumAmount()
	if err != nil {
		return nil, err
	}

	outbox := outboxrepo.NewGormOutboxRepository(gormDB)
	orderMetrics := metrics.NewOrderMetrics(reg)

	return &CompositionRoot{
		cfg:           cfg,
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		outbox:        outbox,
		orderMetrics:  orderMetrics,
		jobMetrics:    metrics.NewJobMetrics(reg),
		events:        commands.NewEventDispatcher(outbox, orderMetrics, log.Component("events")),
		minimumPayout: minimum,
		log:           log,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) agentUoWFactory() commands.AgentUoWFactory {
	return FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryAll() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.events)
}

func (c *CompositionRoot) CreateConfirmSelfShippingCommandHandler() commands.ConfirmSelfShippingCommandHandler {
	return commands.NewConfirmSelfShippingCommandHandler(c.orderUoWFactory(), c.events)
}

func (c *CompositionRoot) CreateMarkAsDeliveredCommandHandler() commands.MarkAsDeliveredCommandHandler {
	return commands.NewMarkAsDeliveredCommandHandler(c.orderUoWFactory(), c.events)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.events)
}

func (c *CompositionRoot) CreateAddStatusNoteCommandHandler() commands.AddStatusNoteCommandHandler {
	return commands.NewAddStatusNoteCommandHandler(c.orderUoWFactory(), c.events)
}

func (c *CompositionRoot) CreateRevertOrderStatusCommandHandler() commands.RevertOrderStatusCommandHandler {
	return commands.NewRevertOrderStatusCommandHandler(c.orderUoWFactory(), c.events)
}

func (c *CompositionRoot) CreateOverrideOrderStatusCommandHandler() commands.OverrideOrderStatusCommandHandler {
	return commands.NewOverrideOrderStatusCommandHandler(c.orderUoWFactory(), c.events)
}

func (c *CompositionRoot) CreateBroadcastPickupRequestCommandHandler() commands.BroadcastPickupRequestCommandHandler {
	return commands.NewBroadcastPickupRequestCommandHandler(c.uowFactoryAll(), c.events)
}

func (c *CompositionRoot) CreateExpressInterestCommandHandler() commands.ExpressInterestCommandHandler {
	return commands.NewExpressInterestCommandHandler(c.uowFactoryAll())
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(c.uowFactoryAll(), c.events)
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	return commands.NewAcceptDeliveryCommandHandler(c.uowFactoryAll())
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.orderUoWFactory(), c.events)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.uowFactoryAll(), c.events)
}

func (c *CompositionRoot) CreateRequestPayoutCommandHandler() commands.RequestPayoutCommandHandler {
	return commands.NewRequestPayoutCommandHandler(c.agentUoWFactory(), c.minimumPayout)
}

func (c *CompositionRoot) CreateSetAgentActiveCommandHandler() commands.SetAgentActiveCommandHandler {
	return commands.NewSetAgentActiveCommandHandler(c.agentUoWFactory())
}

func (c *CompositionRoot) CreateGetStatusHistoryQueryHandler() *queries.GetStatusHistoryQueryHandler {
	return queries.NewGetStatusHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableOpportunitiesQueryHandler() *queries.GetAvailableOpportunitiesQueryHandler {
	return queries.NewGetAvailableOpportunitiesQueryHandler(c.uowFactory)
}

// HTTPHandlers wires every use case the HTTP adapter exposes.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		UpdateOrderStatus:   c.CreateUpdateOrderStatusCommandHandler(),
		ConfirmSelfShipping: c.CreateConfirmSelfShippingCommandHandler(),
		MarkAsDelivered:     c.CreateMarkAsDeliveredCommandHandler(),
		CancelOrder:         c.CreateCancelOrderCommandHandler(),
		AddStatusNote:       c.CreateAddStatusNoteCommandHandler(),
		RevertOrderStatus:   c.CreateRevertOrderStatusCommandHandler(),
		OverrideOrderStatus: c.CreateOverrideOrderStatusCommandHandler(),

		BroadcastPickupRequest: c.CreateBroadcastPickupRequestCommandHandler(),
		ExpressInterest:        c.CreateExpressInterestCommandHandler(),
		AssignAgent:            c.CreateAssignAgentCommandHandler(),
		AcceptDelivery:         c.CreateAcceptDeliveryCommandHandler(),
		ConfirmPickup:          c.CreateConfirmPickupCommandHandler(),
		CompleteDelivery:       c.CreateCompleteDeliveryCommandHandler(),
		RequestPayout:          c.CreateRequestPayoutCommandHandler(),
		SetAgentActive:         c.CreateSetAgentActiveCommandHandler(),

		GetStatusHistory:          c.CreateGetStatusHistoryQueryHandler(),
		GetAvailableOpportunities: c.CreateGetAvailableOpportunitiesQueryHandler(),
	}
}

// CreateOutboxPublisherJob builds the job that drains the outbox into
// publisher. lease may be nil.
func (c *CompositionRoot) CreateOutboxPublisherJob(publisher jobs.MessagePublisher, lease jobs.Lease) (*jobs.OutboxPublisherJob, error) {
	if publisher == nil {
		return nil, errors.New("outbox publisher job needs a message publisher")
	}
	return jobs.NewOutboxPublisherJob(
		c.outbox,
		publisher,
		lease,
		jobs.OutboxPublisherConfig{
			Schedule:    c.cfg.Outbox.Schedule,
			BatchSize:   c.cfg.Outbox.BatchSize,
			MaxAttempts: c.cfg.Outbox.MaxAttempts,
		},
		c.orderMetrics,
		c.jobMetrics,
		c.log.Component("outbox-publisher"),
	), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
