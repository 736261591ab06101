package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

type ConfirmPickupCommandHandler struct {
	uowFactory OrderUoWFactory
	events     *EventDispatcher
	clock
}

func NewConfirmPickupCommandHandler(uowFactory OrderUoWFactory, events *EventDispatcher) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h ConfirmPickupCommandHandler) WithClock(now func() time.Time) ConfirmPickupCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmPickupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, h.events, cmd.orderTarget, func(o *order.Order) error {
		return o.ConfirmPickup(cmd.Actor(), cmd.Proof(), h.Now())
	})
}
