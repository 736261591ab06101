package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAcceptDeliveryCommandIsNotConstructed = errors.New(
	"AcceptDeliveryCommand must be created via NewAcceptDeliveryCommand constructor",
)

type AcceptDeliveryCommand struct {
	orderTarget
	guard guard.ConstructorGuard
}

func NewAcceptDeliveryCommand(orderID kernel.UUID, actor kernel.Actor, opts ...Option) (AcceptDeliveryCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)
	if err != nil {
		return AcceptDeliveryCommand{}, err
	}
	if err = requireRole(actor, kernel.RoleShippingAgent, "only shipping agents can accept deliveries"); err != nil {
		return AcceptDeliveryCommand{}, err
	}

	return AcceptDeliveryCommand{
		orderTarget: target,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAcceptDeliveryCommandIsNotConstructed)
}
