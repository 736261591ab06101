package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

type MarkAsDeliveredCommandHandler struct {
	uowFactory OrderUoWFactory
	events     *EventDispatcher
	clock
}

func NewMarkAsDeliveredCommandHandler(uowFactory OrderUoWFactory, events *EventDispatcher) MarkAsDeliveredCommandHandler {
	return MarkAsDeliveredCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h MarkAsDeliveredCommandHandler) WithClock(now func() time.Time) MarkAsDeliveredCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h MarkAsDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkAsDeliveredCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, h.events, cmd.orderTarget, func(o *order.Order) error {
		if err := o.AuthorizeArtisan(cmd.Actor()); err != nil {
			return err
		}
		return o.MarkDelivered(cmd.Actor(), cmd.Confirmation(), h.Now())
	})
}
