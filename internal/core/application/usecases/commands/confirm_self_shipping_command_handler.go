package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

type ConfirmSelfShippingCommandHandler struct {
	uowFactory OrderUoWFactory
	events     *EventDispatcher
	clock
}

func NewConfirmSelfShippingCommandHandler(uowFactory OrderUoWFactory, events *EventDispatcher) ConfirmSelfShippingCommandHandler {
	return ConfirmSelfShippingCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h ConfirmSelfShippingCommandHandler) WithClock(now func() time.Time) ConfirmSelfShippingCommandHandler {
	h.clock = clock{now: now}
	return h
}

// Handle ships the order with the artisan's carrier; the shipped event
// carries the tracking details for the buyer notification.
func (h ConfirmSelfShippingCommandHandler) Handle(ctx context.Context, cmd ConfirmSelfShippingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, h.events, cmd.orderTarget, func(o *order.Order) error {
		if err := o.AuthorizeArtisan(cmd.Actor()); err != nil {
			return err
		}
		return o.ConfirmSelfShipping(cmd.Actor(), cmd.Shipment(), h.Now())
	})
}
