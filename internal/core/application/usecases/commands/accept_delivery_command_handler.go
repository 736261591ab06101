package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

// AcceptDeliveryCommandHandler freezes the commission of the assigned agent
// and returns it.
type AcceptDeliveryCommandHandler struct {
	uowFactory UoWFactory
	calculator services.CommissionCalculator
	clock
}

func NewAcceptDeliveryCommandHandler(uowFactory UoWFactory) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{
		uowFactory: uowFactory,
		calculator: services.NewCommissionCalculator(),
		clock:      systemClock(),
	}
}

func (h AcceptDeliveryCommandHandler) WithClock(now func() time.Time) AcceptDeliveryCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h AcceptDeliveryCommandHandler) Handle(ctx context.Context, cmd AcceptDeliveryCommand) (decimal.Decimal, error) {
	if err := cmd.Validate(); err != nil {
		return decimal.Zero, err
	}

	var commission decimal.Decimal
	err := inTransaction(ctx, h.uowFactory, nil, func(uow UoW) ([]order.Event, error) {
		o, err := loadOrder(ctx, uow, cmd.orderTarget)
		if err != nil {
			return nil, err
		}
		// Reject other agents before touching their profile.
		if err = o.AuthorizeAssignedAgent(cmd.Actor().ID()); err != nil {
			return nil, err
		}

		a, err := uow.AgentRepository().Get(ctx, cmd.Actor().ID())
		if err != nil {
			return nil, err
		}

		commission = h.calculator.Calculate(o, a)
		if err = o.AcceptDelivery(cmd.Actor(), commission, h.Now()); err != nil {
			return nil, err
		}
		return nil, uow.OrderRepository().Update(ctx, o)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return commission, nil
}
