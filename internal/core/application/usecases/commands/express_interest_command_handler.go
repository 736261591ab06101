package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

type ExpressInterestCommandHandler struct {
	uowFactory UoWFactory
	clock
}

func NewExpressInterestCommandHandler(uowFactory UoWFactory) ExpressInterestCommandHandler {
	return ExpressInterestCommandHandler{uowFactory: uowFactory, clock: systemClock()}
}

func (h ExpressInterestCommandHandler) WithClock(now func() time.Time) ExpressInterestCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h ExpressInterestCommandHandler) Handle(ctx context.Context, cmd ExpressInterestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTransaction(ctx, h.uowFactory, nil, func(uow UoW) ([]order.Event, error) {
		a, err := uow.AgentRepository().Get(ctx, cmd.Actor().ID())
		if err != nil {
			return nil, err
		}
		if err = a.RequireEligible(); err != nil {
			return nil, err
		}

		o, err := loadOrder(ctx, uow, cmd.orderTarget)
		if err != nil {
			return nil, err
		}
		if err = o.ExpressInterest(a.Candidate(), h.Now()); err != nil {
			return nil, err
		}
		return nil, uow.OrderRepository().Update(ctx, o)
	})
}
