package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

// RevertOrderStatusCommandHandler undoes the last transition while the
// fifteen minute window is open.
type RevertOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	events     *EventDispatcher
	clock
}

func NewRevertOrderStatusCommandHandler(uowFactory OrderUoWFactory, events *EventDispatcher) RevertOrderStatusCommandHandler {
	return RevertOrderStatusCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h RevertOrderStatusCommandHandler) WithClock(now func() time.Time) RevertOrderStatusCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h RevertOrderStatusCommandHandler) Handle(ctx context.Context, cmd RevertOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, h.events, cmd.orderTarget, func(o *order.Order) error {
		if err := o.AuthorizeArtisan(cmd.Actor()); err != nil {
			return err
		}
		return o.RevertStatus(cmd.Actor(), cmd.Reason(), h.Now())
	})
}
