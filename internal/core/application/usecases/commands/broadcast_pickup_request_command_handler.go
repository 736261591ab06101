package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
)

// BroadcastResult lists the agents a broadcast reached.
type BroadcastResult struct {
	Agents []order.AgentCandidate
	Count  int
}

type BroadcastPickupRequestCommandHandler struct {
	uowFactory UoWFactory
	events     *EventDispatcher
	matcher    services.AgentMatcher
	clock
}

func NewBroadcastPickupRequestCommandHandler(uowFactory UoWFactory, events *EventDispatcher) BroadcastPickupRequestCommandHandler {
	return BroadcastPickupRequestCommandHandler{
		uowFactory: uowFactory,
		events:     events,
		matcher:    services.NewAgentMatcher(),
		clock:      systemClock(),
	}
}

func (h BroadcastPickupRequestCommandHandler) WithClock(now func() time.Time) BroadcastPickupRequestCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h BroadcastPickupRequestCommandHandler) Handle(
	ctx context.Context,
	cmd BroadcastPickupRequestCommand,
) (BroadcastResult, error) {
	if err := cmd.Validate(); err != nil {
		return BroadcastResult{}, err
	}

	var result BroadcastResult
	err := inTransaction(ctx, h.uowFactory, h.events, func(uow UoW) ([]order.Event, error) {
		o, err := loadOrder(ctx, uow, cmd.orderTarget)
		if err != nil {
			return nil, err
		}

		eligible, err := uow.AgentRepository().ListEligible(ctx)
		if err != nil {
			return nil, err
		}
		resolved := h.matcher.Resolve(cmd.Targets(), eligible)

		if err = o.BroadcastPickupRequest(cmd.Actor(), cmd.Targets(), agentIDs(resolved), cmd.Note(), h.Now()); err != nil {
			return nil, err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, err
		}

		result = BroadcastResult{Agents: candidates(resolved), Count: len(resolved)}
		return o.PullEvents(), nil
	})
	if err != nil {
		return BroadcastResult{}, err
	}
	return result, nil
}

func agentIDs(agents []*agent.Agent) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(agents))
	for _, a := range agents {
		ids = append(ids, a.ID())
	}
	return ids
}

func candidates(agents []*agent.Agent) []order.AgentCandidate {
	out := make([]order.AgentCandidate, 0, len(agents))
	for _, a := range agents {
		out = append(out, a.Candidate())
	}
	return out
}
