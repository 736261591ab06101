package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

type CompleteDeliveryCommand struct {
	orderTarget
	proof order.DeliveryProof
	guard guard.ConstructorGuard
}

func NewCompleteDeliveryCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	proof order.DeliveryProof,
	opts ...Option,
) (CompleteDeliveryCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)
	if err != nil {
		return CompleteDeliveryCommand{}, err
	}
	if err = requireRole(actor, kernel.RoleShippingAgent, "only shipping agents can complete deliveries"); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return CompleteDeliveryCommand{
		orderTarget: target,
		proof: order.DeliveryProof{
			Note:      strings.TrimSpace(proof.Note),
			Image:     strings.TrimSpace(proof.Image),
			Signature: strings.TrimSpace(proof.Signature),
			OTP:       strings.TrimSpace(proof.OTP),
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteDeliveryCommand) Proof() order.DeliveryProof {
	return c.proof
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}
