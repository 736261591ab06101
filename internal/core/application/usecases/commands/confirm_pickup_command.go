package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

type ConfirmPickupCommand struct {
	orderTarget
	proof order.PickupProof
	guard guard.ConstructorGuard
}

func NewConfirmPickupCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	proof order.PickupProof,
	opts ...Option,
) (ConfirmPickupCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)
	if err != nil {
		return ConfirmPickupCommand{}, err
	}
	if err = requireRole(actor, kernel.RoleShippingAgent, "only shipping agents can confirm pickup"); err != nil {
		return ConfirmPickupCommand{}, err
	}

	return ConfirmPickupCommand{
		orderTarget: target,
		proof: order.PickupProof{
			Note:  strings.TrimSpace(proof.Note),
			Image: strings.TrimSpace(proof.Image),
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPickupCommand) Proof() order.PickupProof {
	return c.proof
}

func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}
