package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
)

type AssignAgentCommandHandler struct {
	uowFactory UoWFactory
	events     *EventDispatcher
	clock
}

func NewAssignAgentCommandHandler(uowFactory UoWFactory, events *EventDispatcher) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h AssignAgentCommandHandler) WithClock(now func() time.Time) AssignAgentCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h AssignAgentCommandHandler) Handle(ctx context.Context, cmd AssignAgentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inTransaction(ctx, h.uowFactory, h.events, func(uow UoW) ([]order.Event, error) {
		a, err := uow.AgentRepository().Get(ctx, cmd.AgentID())
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
		if err = o.AssignAgent(cmd.Actor(), a.Candidate(), cmd.Note(), h.Now()); err != nil {
			return nil, err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, err
		}
		return o.PullEvents(), nil
	})
}
