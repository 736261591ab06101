package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrExpressInterestCommandIsNotConstructed = errors.New(
	"ExpressInterestCommand must be created via NewExpressInterestCommand constructor",
)

type ExpressInterestCommand struct {
	orderTarget
	guard guard.ConstructorGuard
}

func NewExpressInterestCommand(orderID kernel.UUID, actor kernel.Actor, opts ...Option) (ExpressInterestCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)
	if err != nil {
		return ExpressInterestCommand{}, err
	}
	if err = requireRole(actor, kernel.RoleShippingAgent, "only shipping agents can express interest"); err != nil {
		return ExpressInterestCommand{}, err
	}

	return ExpressInterestCommand{
		orderTarget: target,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ExpressInterestCommand) Validate() error {
	return c.guard.Validate(ErrExpressInterestCommandIsNotConstructed)
}
