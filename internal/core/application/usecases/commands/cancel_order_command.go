package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

type CancelOrderCommand struct {
	orderTarget
	reason string
	guard  guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, actor kernel.Actor, reason string, opts ...Option) (CancelOrderCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)

	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("reason")
	}
	if err = errors.Join(err, reasonErr); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderTarget: target,
		reason:      reason,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}
