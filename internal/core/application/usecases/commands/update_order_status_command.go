package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand moves an order along the transition table on
// behalf of its artisan or an admin.
type UpdateOrderStatusCommand struct {
	orderTarget
	status order.Status
	note   string
	guard  guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	status order.Status,
	note string,
	opts ...Option,
) (UpdateOrderStatusCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)
	if err = errors.Join(err, status.Validate()); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		orderTarget: target,
		status:      status,
		note:        strings.TrimSpace(note),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func NewMarkAsReceivedCommand(orderID kernel.UUID, actor kernel.Actor, opts ...Option) (UpdateOrderStatusCommand, error) {
	return NewUpdateOrderStatusCommand(orderID, actor, order.Received, "Order received by artisan", opts...)
}

func NewMarkAsPackedCommand(orderID kernel.UUID, actor kernel.Actor, opts ...Option) (UpdateOrderStatusCommand, error) {
	return NewUpdateOrderStatusCommand(orderID, actor, order.Packed, "Order packed and ready", opts...)
}

func NewRequestPickupAgentCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	note string,
	opts ...Option,
) (UpdateOrderStatusCommand, error) {
	if strings.TrimSpace(note) == "" {
		note = "Pickup agent requested"
	}
	return NewUpdateOrderStatusCommand(orderID, actor, order.PickupRequested, note, opts...)
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c UpdateOrderStatusCommand) Note() string {
	return c.note
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}
