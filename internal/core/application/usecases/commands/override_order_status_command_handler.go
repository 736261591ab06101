package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

type OverrideOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	events     *EventDispatcher
	clock
}

func NewOverrideOrderStatusCommandHandler(uowFactory OrderUoWFactory, events *EventDispatcher) OverrideOrderStatusCommandHandler {
	return OverrideOrderStatusCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h OverrideOrderStatusCommandHandler) WithClock(now func() time.Time) OverrideOrderStatusCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h OverrideOrderStatusCommandHandler) Handle(ctx context.Context, cmd OverrideOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, h.events, cmd.orderTarget, func(o *order.Order) error {
		return o.OverrideStatus(cmd.Actor(), cmd.Status(), cmd.Reason(), h.Now())
	})
}
