package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

// CompleteDeliveryCommandHandler delivers the order and credits the frozen
// commission to the agent wallet in the same transaction.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	events     *EventDispatcher
	clock
}

func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory, events *EventDispatcher) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h CompleteDeliveryCommandHandler) WithClock(now func() time.Time) CompleteDeliveryCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTransaction(ctx, h.uowFactory, h.events, func(uow UoW) ([]order.Event, error) {
		o, err := loadOrder(ctx, uow, cmd.orderTarget)
		if err != nil {
			return nil, err
		}

		commission, err := o.CompleteDelivery(cmd.Actor(), cmd.Proof(), h.Now())
		if err != nil {
			return nil, err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, err
		}
		if err = uow.AgentRepository().CreditDelivery(ctx, cmd.Actor().ID(), commission); err != nil {
			return nil, err
		}
		return o.PullEvents(), nil
	})
}
