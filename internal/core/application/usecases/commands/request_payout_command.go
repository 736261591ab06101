package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRequestPayoutCommandIsNotConstructed = errors.New(
	"RequestPayoutCommand must be created via NewRequestPayoutCommand constructor",
)

type RequestPayoutCommand struct {
	actor  kernel.Actor
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

func NewRequestPayoutCommand(actor kernel.Actor, amount decimal.Decimal) (RequestPayoutCommand, error) {
	if err := errors.Join(actor.Validate(), kernel.ValidateAmount("amount", amount)); err != nil {
		return RequestPayoutCommand{}, err
	}
	if err := requireRole(actor, kernel.RoleShippingAgent, "only shipping agents can request payouts"); err != nil {
		return RequestPayoutCommand{}, err
	}

	return RequestPayoutCommand{
		actor:  actor,
		amount: kernel.Round2(amount),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c RequestPayoutCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RequestPayoutCommand) Amount() decimal.Decimal {
	return c.amount
}

func (c RequestPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRequestPayoutCommandIsNotConstructed)
}
