package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels an order and flags a pending refund when
// payment had completed; refund processing polls that flag.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	events     *EventDispatcher
	clock
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, events *EventDispatcher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h CancelOrderCommandHandler) WithClock(now func() time.Time) CancelOrderCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, h.events, cmd.orderTarget, func(o *order.Order) error {
		if err := o.AuthorizeArtisan(cmd.Actor()); err != nil {
			return err
		}
		return o.Cancel(cmd.Actor(), cmd.Reason(), h.Now())
	})
}
