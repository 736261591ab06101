package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrMarkAsDeliveredCommandIsNotConstructed = errors.New(
	"MarkAsDeliveredCommand must be created via NewMarkAsDeliveredCommand constructor",
)

// MarkAsDeliveredCommand closes a self-shipped order. Agent deliveries go
// through CompleteDeliveryCommand so the agent is paid.
type MarkAsDeliveredCommand struct {
	orderTarget
	confirmation order.DeliveryConfirmation
	guard        guard.ConstructorGuard
}

func NewMarkAsDeliveredCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	note, signature, confirmedBy string,
	opts ...Option,
) (MarkAsDeliveredCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)
	if err != nil {
		return MarkAsDeliveredCommand{}, err
	}

	return MarkAsDeliveredCommand{
		orderTarget: target,
		confirmation: order.DeliveryConfirmation{
			Note:        note,
			Signature:   signature,
			ConfirmedBy: confirmedBy,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c MarkAsDeliveredCommand) Confirmation() order.DeliveryConfirmation {
	return c.confirmation
}

func (c MarkAsDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkAsDeliveredCommandIsNotConstructed)
}
