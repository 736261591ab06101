package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// AgentAvailability is the agent profile after an activation change.
type AgentAvailability struct {
	AgentID  kernel.UUID
	Name     string
	Active   bool
	Eligible bool
	PinCodes []string
}

type SetAgentActiveCommandHandler struct {
	uowFactory AgentUoWFactory
}

func NewSetAgentActiveCommandHandler(uowFactory AgentUoWFactory) SetAgentActiveCommandHandler {
	return SetAgentActiveCommandHandler{uowFactory: uowFactory}
}

func (h SetAgentActiveCommandHandler) Handle(ctx context.Context, cmd SetAgentActiveCommand) (AgentAvailability, error) {
	if err := cmd.Validate(); err != nil {
		return AgentAvailability{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AgentAvailability{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.AgentRepository()

	a, err := repo.Get(ctx, cmd.AgentID())
	if err != nil {
		return AgentAvailability{}, err
	}

	if cmd.Active() {
		a.Activate()
	} else {
		a.Deactivate()
	}

	if err = repo.Update(ctx, a); err != nil {
		return AgentAvailability{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AgentAvailability{}, err
	}

	return AgentAvailability{
		AgentID:  a.ID(),
		Name:     a.Name(),
		Active:   a.ProfileActive(),
		Eligible: a.IsEligible(),
		PinCodes: a.PinCodes(),
	}, nil
}
