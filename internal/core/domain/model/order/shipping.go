package order

import (
	"fmt"
	"slices"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type ShippingMethod string

const (
	ShippingMethodUnset       ShippingMethod = ""
	ShippingMethodPickupAgent ShippingMethod = "pickup_agent"
	ShippingMethodSelfShip    ShippingMethod = "self_ship"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (p PaymentStatus) Validate() error {
	switch p {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is not a valid payment status", string(p)))
	}
}

const RefundPending = "pending"

type Address struct {
	Name     string
	Phone    string
	Street   string
	City     string
	District string
	State    string
	PinCode  string
}

type InterestedAgent struct {
	AgentID      kernel.UUID
	Name         string
	Phone        string
	Rating       float64
	InterestedAt time.Time
}

type BroadcastInfo struct {
	BroadcastedAt    *time.Time
	BroadcastedBy    *kernel.UUID
	Note             string
	TargetedAgentIDs []kernel.UUID
	TargetPinCodes   []string
	TargetDistrict   string
	InterestedAgents []InterestedAgent
}

// IsTargeted reports whether the broadcast restricted its audience.
func (b *BroadcastInfo) IsTargeted() bool {
	if b == nil {
		return false
	}
	return len(b.TargetedAgentIDs) > 0 || len(b.TargetPinCodes) > 0 || b.TargetDistrict != ""
}

func (b *BroadcastInfo) Targets(agentID kernel.UUID) bool {
	if b == nil {
		return false
	}
	return slices.ContainsFunc(b.TargetedAgentIDs, agentID.IsEqual)
}

func (b *BroadcastInfo) HasInterest(agentID kernel.UUID) bool {
	if b == nil {
		return false
	}
	return slices.ContainsFunc(b.InterestedAgents, func(ia InterestedAgent) bool {
		return ia.AgentID.IsEqual(agentID)
	})
}

func (b *BroadcastInfo) clone() *BroadcastInfo {
	if b == nil {
		return nil
	}
	c := *b
	c.TargetedAgentIDs = slices.Clone(b.TargetedAgentIDs)
	c.TargetPinCodes = slices.Clone(b.TargetPinCodes)
	c.InterestedAgents = slices.Clone(b.InterestedAgents)
	return &c
}

type Assignment struct {
	AgentID    kernel.UUID
	AgentName  string
	AgentPhone string
	AssignedAt time.Time
	AssignedBy kernel.UUID
	AcceptedAt *time.Time
	// Commission is frozen at acceptance and paid out on delivery.
	Commission *decimal.Decimal
}

func (a *Assignment) IsAccepted() bool {
	return a != nil && a.AcceptedAt != nil
}

type ShippingDetails struct {
	Broadcast          *BroadcastInfo
	Assignment         *Assignment
	Carrier            string
	TrackingNumber     string
	EstimatedDelivery  *time.Time
	PickedUpAt         *time.Time
	DeliveredAt        *time.Time
	PickupProofImage   string
	DeliveryProofImage string
	Signature          string
	ConfirmedBy        string
}

func (d ShippingDetails) clone() ShippingDetails {
	d.Broadcast = d.Broadcast.clone()
	if d.Assignment != nil {
		a := *d.Assignment
		d.Assignment = &a
	}
	return d
}

type Cancellation struct {
	Reason      string
	CancelledBy kernel.UUID
	CancelledAt time.Time
	// RefundStatus is "pending" when the order was paid, nil otherwise.
	RefundStatus *string
}

// SelfShipment is what an artisan supplies when shipping with a carrier.
type SelfShipment struct {
	Carrier           string
	TrackingNumber    string
	EstimatedDelivery *time.Time
	Note              string
}

type DeliveryConfirmation struct {
	Note        string
	Signature   string
	ConfirmedBy string
}

type PickupProof struct {
	Note  string
	Image string
}

type DeliveryProof struct {
	Note      string
	Image     string
	Signature string
	OTP       string
}

// BroadcastTargets is the audience an admin asked for.
type BroadcastTargets struct {
	AgentIDs []kernel.UUID
	PinCodes []string
	District string
}

// AgentCandidate carries the agent fields denormalised into the order.
type AgentCandidate struct {
	ID     kernel.UUID
	Name   string
	Phone  string
	Rating float64
}
