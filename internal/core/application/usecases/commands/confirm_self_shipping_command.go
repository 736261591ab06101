package commands

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrConfirmSelfShippingCommandIsNotConstructed = errors.New(
	"ConfirmSelfShippingCommand must be created via NewConfirmSelfShippingCommand constructor",
)

type ConfirmSelfShippingCommand struct {
	orderTarget
	shipment order.SelfShipment
	guard    guard.ConstructorGuard
}

func NewConfirmSelfShippingCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	carrier, trackingNumber string,
	estimatedDelivery *time.Time,
	note string,
	opts ...Option,
) (ConfirmSelfShippingCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)

	var carrierErr, trackingErr error
	if strings.TrimSpace(carrier) == "" {
		carrierErr = errs.NewValueIsRequiredError("carrier")
	}
	if strings.TrimSpace(trackingNumber) == "" {
		trackingErr = errs.NewValueIsRequiredError("trackingNumber")
	}
	if err = errors.Join(err, carrierErr, trackingErr); err != nil {
		return ConfirmSelfShippingCommand{}, err
	}

	return ConfirmSelfShippingCommand{
		orderTarget: target,
		shipment: order.SelfShipment{
			Carrier:           carrier,
			TrackingNumber:    trackingNumber,
			EstimatedDelivery: estimatedDelivery,
			Note:              note,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmSelfShippingCommand) Shipment() order.SelfShipment {
	return c.shipment
}

func (c ConfirmSelfShippingCommand) Validate() error {
	return c.guard.Validate(ErrConfirmSelfShippingCommandIsNotConstructed)
}
