package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrSetAgentActiveCommandIsNotConstructed = errors.New(
	"SetAgentActiveCommand must be created via NewSetAgentActiveCommand constructor",
)

// SetAgentActiveCommand switches an agent profile on or off. Inactive agents
// drop out of broadcasts, opportunities and assignment.
type SetAgentActiveCommand struct {
	agentID kernel.UUID
	actor   kernel.Actor
	active  bool
	guard   guard.ConstructorGuard
}

func NewSetAgentActiveCommand(agentID kernel.UUID, actor kernel.Actor, active bool) (SetAgentActiveCommand, error) {
	if err := errors.Join(agentID.Validate(), actor.Validate()); err != nil {
		return SetAgentActiveCommand{}, err
	}
	if !actor.IsAdmin() {
		return SetAgentActiveCommand{}, errs.NewAuthorizationError(
			actor.ID().String(), string(actor.Role()), "only admins can change agent availability")
	}

	return SetAgentActiveCommand{
		agentID: agentID,
		actor:   actor,
		active:  active,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SetAgentActiveCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c SetAgentActiveCommand) Actor() kernel.Actor {
	return c.actor
}

func (c SetAgentActiveCommand) Active() bool {
	return c.active
}

func (c SetAgentActiveCommand) Validate() error {
	return c.guard.Validate(ErrSetAgentActiveCommandIsNotConstructed)
}
