package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrRevertOrderStatusCommandIsNotConstructed = errors.New(
	"RevertOrderStatusCommand must be created via NewRevertOrderStatusCommand constructor",
)

type RevertOrderStatusCommand struct {
	orderTarget
	reason string
	guard  guard.ConstructorGuard
}

func NewRevertOrderStatusCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	reason string,
	opts ...Option,
) (RevertOrderStatusCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)
	if err != nil {
		return RevertOrderStatusCommand{}, err
	}

	return RevertOrderStatusCommand{
		orderTarget: target,
		reason:      strings.TrimSpace(reason),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RevertOrderStatusCommand) Reason() string {
	return c.reason
}

func (c RevertOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrRevertOrderStatusCommandIsNotConstructed)
}
