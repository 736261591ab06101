package http

import (
	"context"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// CommandHandler is a command handler that returns nothing but an error.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// ResultHandler is a command or query handler with a result.
type ResultHandler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Handlers are the use cases the HTTP API exposes.
type Handlers struct {
	UpdateOrderStatus   CommandHandler[commands.UpdateOrderStatusCommand]
	ConfirmSelfShipping CommandHandler[commands.ConfirmSelfShippingCommand]
	MarkAsDelivered     CommandHandler[commands.MarkAsDeliveredCommand]
	CancelOrder         CommandHandler[commands.CancelOrderCommand]
	AddStatusNote       CommandHandler[commands.AddStatusNoteCommand]
	RevertOrderStatus   CommandHandler[commands.RevertOrderStatusCommand]
	OverrideOrderStatus CommandHandler[commands.OverrideOrderStatusCommand]

	BroadcastPickupRequest ResultHandler[commands.BroadcastPickupRequestCommand, commands.BroadcastResult]
	ExpressInterest        CommandHandler[commands.ExpressInterestCommand]
	AssignAgent            CommandHandler[commands.AssignAgentCommand]
	AcceptDelivery         ResultHandler[commands.AcceptDeliveryCommand, decimal.Decimal]
	ConfirmPickup          CommandHandler[commands.ConfirmPickupCommand]
	CompleteDelivery       CommandHandler[commands.CompleteDeliveryCommand]
	RequestPayout          ResultHandler[commands.RequestPayoutCommand, kernel.UUID]
	SetAgentActive         ResultHandler[commands.SetAgentActiveCommand, commands.AgentAvailability]

	GetStatusHistory          ResultHandler[queries.GetStatusHistoryQuery, queries.GetStatusHistoryQueryResponse]
	GetAvailableOpportunities ResultHandler[queries.GetAvailableOpportunitiesQuery, []queries.Opportunity]
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	log    *logger.Logger
	echo   *echo.Echo
	health func(ctx context.Context) error
}

type Options struct {
	Logger *logger.Logger
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Health backs /health when set.
	Health func(ctx context.Context) error
}

func NewServer(h Handlers, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(log)

	s := &Server{h: h, log: log, echo: e, health: opts.Health}

	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())

	e.GET("/health", s.Health)
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api/v1", s.actorMiddleware)

	orders := api.Group("/orders/:id")
	orders.GET("/history", s.GetStatusHistory)
	orders.PATCH("/status", s.UpdateOrderStatus)
	orders.POST("/received", s.MarkAsReceived)
	orders.POST("/packed", s.MarkAsPacked)
	orders.POST("/request-pickup", s.RequestPickupAgent)
	orders.POST("/ship", s.ConfirmSelfShipping)
	orders.POST("/deliver", s.MarkAsDelivered)
	orders.POST("/cancel", s.CancelOrder)
	orders.POST("/notes", s.AddStatusNote)
	orders.POST("/revert", s.RevertOrderStatus)

	admin := api.Group("/admin/orders/:id")
	admin.POST("/override", s.OverrideOrderStatus)
	admin.POST("/broadcast", s.BroadcastPickupRequest)
	admin.POST("/assign", s.AssignAgent)

	agents := api.Group("/admin/agents/:id")
	agents.POST("/activate", s.ActivateAgent)
	agents.POST("/deactivate", s.DeactivateAgent)

	agent := api.Group("/agent")
	agent.GET("/opportunities", s.GetAvailableOpportunities)
	agent.POST("/orders/:id/interest", s.ExpressInterest)
	agent.POST("/orders/:id/accept", s.AcceptDelivery)
	agent.POST("/orders/:id/pickup", s.ConfirmPickup)
	agent.POST("/orders/:id/complete", s.CompleteDelivery)
	agent.POST("/payouts", s.RequestPayout)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	if s.health != nil {
		if err := s.health(c.Request().Context()); err != nil {
			s.log.Warn(c.Request().Context(), "health check failed", err)
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Code:    http.StatusServiceUnavailable,
				Message: "Unhealthy",
			})
		}
	}
	return c.String(http.StatusOK, "Healthy")
}

func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := log.WithFields(c.Request().Context(), map[string]any{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"request_id": v.RequestID,
			})
			switch {
			case v.Status >= http.StatusInternalServerError:
				log.Error(ctx, "request failed", v.Error)
			default:
				log.Info(ctx, "request handled")
			}
			return nil
		},
	})
}
