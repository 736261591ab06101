package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrBroadcastPickupRequestCommandIsNotConstructed = errors.New(
	"BroadcastPickupRequestCommand must be created via NewBroadcastPickupRequestCommand constructor",
)

type BroadcastPickupRequestCommand struct {
	orderTarget
	targets order.BroadcastTargets
	note    string
	guard   guard.ConstructorGuard
}

func NewBroadcastPickupRequestCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	targets order.BroadcastTargets,
	note string,
	opts ...Option,
) (BroadcastPickupRequestCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)
	if err != nil {
		return BroadcastPickupRequestCommand{}, err
	}
	if err = requireRole(actor, kernel.RoleAdmin, "broadcast requires an admin"); err != nil {
		return BroadcastPickupRequestCommand{}, err
	}

	var idErrs []error
	for _, id := range targets.AgentIDs {
		idErrs = append(idErrs, id.Validate())
	}
	if err = errors.Join(idErrs...); err != nil {
		return BroadcastPickupRequestCommand{}, err
	}

	pins := make([]string, 0, len(targets.PinCodes))
	for _, pin := range targets.PinCodes {
		if pin = strings.TrimSpace(pin); pin != "" {
			pins = append(pins, pin)
		}
	}

	return BroadcastPickupRequestCommand{
		orderTarget: target,
		targets: order.BroadcastTargets{
			AgentIDs: append([]kernel.UUID(nil), targets.AgentIDs...),
			PinCodes: pins,
			District: strings.TrimSpace(targets.District),
		},
		note:  strings.TrimSpace(note),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c BroadcastPickupRequestCommand) Targets() order.BroadcastTargets {
	return c.targets
}

func (c BroadcastPickupRequestCommand) Note() string {
	return c.note
}

func (c BroadcastPickupRequestCommand) Validate() error {
	return c.guard.Validate(ErrBroadcastPickupRequestCommandIsNotConstructed)
}
