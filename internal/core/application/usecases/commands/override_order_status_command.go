package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrOverrideOrderStatusCommandIsNotConstructed = errors.New(
	"OverrideOrderStatusCommand must be created via NewOverrideOrderStatusCommand constructor",
)

// OverrideOrderStatusCommand force-sets a status outside the transition table.
type OverrideOrderStatusCommand struct {
	orderTarget
	status order.Status
	reason string
	guard  guard.ConstructorGuard
}

func NewOverrideOrderStatusCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	status order.Status,
	reason string,
	opts ...Option,
) (OverrideOrderStatusCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)

	var roleErr, statusErr, reasonErr error
	if err == nil {
		roleErr = requireRole(actor, kernel.RoleAdmin, "status override requires an admin")
	}
	if status == "" {
		statusErr = errs.NewValueIsRequiredError("status")
	} else {
		statusErr = status.Validate()
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("reason")
	}
	if err = errors.Join(err, roleErr, statusErr, reasonErr); err != nil {
		return OverrideOrderStatusCommand{}, err
	}

	return OverrideOrderStatusCommand{
		orderTarget: target,
		status:      status,
		reason:      reason,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c OverrideOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c OverrideOrderStatusCommand) Reason() string {
	return c.reason
}

func (c OverrideOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrOverrideOrderStatusCommandIsNotConstructed)
}
