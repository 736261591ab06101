package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

// UpdateOrderStatusCommandHandler runs the generic engine transition:
// fetch, validate against the table, append history, persist, notify.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	events     *EventDispatcher
	clock
}

func NewUpdateOrderStatusCommandHandler(uowFactory OrderUoWFactory, events *EventDispatcher) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h UpdateOrderStatusCommandHandler) WithClock(now func() time.Time) UpdateOrderStatusCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, h.events, cmd.orderTarget, func(o *order.Order) error {
		if err := o.AuthorizeArtisan(cmd.Actor()); err != nil {
			return err
		}
		return o.UpdateStatus(cmd.Status(), cmd.Actor(), cmd.Note(), h.Now())
	})
}
