package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

type AssignAgentCommand struct {
	orderTarget
	agentID kernel.UUID
	note    string
	guard   guard.ConstructorGuard
}

func NewAssignAgentCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	agentID kernel.UUID,
	note string,
	opts ...Option,
) (AssignAgentCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)
	if err = errors.Join(err, agentID.Validate()); err != nil {
		return AssignAgentCommand{}, err
	}
	if err = requireRole(actor, kernel.RoleAdmin, "agent assignment requires an admin"); err != nil {
		return AssignAgentCommand{}, err
	}

	return AssignAgentCommand{
		orderTarget: target,
		agentID:     agentID,
		note:        strings.TrimSpace(note),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AssignAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c AssignAgentCommand) Note() string {
	return c.note
}

func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}
