package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

const (
	// ModificationWindow bounds how long after a transition it may be reverted.
	ModificationWindow = 15 * time.Minute
	// DefaultDeliveryEstimate applies when a self-shipment omits its estimate.
	DefaultDeliveryEstimate = 7 * 24 * time.Hour
	InitialVersion          = int64(1)
)

// Order is the aggregate root for the order lifecycle.
type Order struct {
	id            kernel.UUID
	orderNumber   string
	artisanID     kernel.UUID
	buyerID       kernel.UUID
	totalAmount   decimal.Decimal
	paymentStatus PaymentStatus
	address       Address
	createdAt     time.Time

	status             Status
	history            []HistoryEntry
	lastStatusChangeAt time.Time
	shippingMethod     ShippingMethod
	shipping           ShippingDetails
	cancellation       *Cancellation

	version          int64
	persistedHistory int
	events           []Event

	isConstructed bool
}

// NewOrder places an order in pending status with its first history entry.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	artisanID, buyerID kernel.UUID,
	totalAmount decimal.Decimal,
	paymentStatus PaymentStatus,
	address Address,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:             Pending,
		lastStatusChangeAt: now,
		createdAt:          now,
		version:            InitialVersion,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setArtisanID(artisanID),
		o.setBuyerID(buyerID),
		o.setTotalAmount(totalAmount),
		paymentStatus.Validate(),
	); err != nil {
		return nil, err
	}
	o.paymentStatus = paymentStatus
	o.address = address

	o.history = []HistoryEntry{{
		Status:        Pending,
		Timestamp:     now,
		UpdatedBy:     buyerID,
		UpdatedByRole: kernel.RoleBuyer,
		Note:          "Order placed",
	}}

	return o, nil
}

// State is the persisted form of an order, used to rehydrate it.
type State struct {
	ID                 kernel.UUID
	OrderNumber        string
	ArtisanID          kernel.UUID
	BuyerID            kernel.UUID
	TotalAmount        decimal.Decimal
	PaymentStatus      PaymentStatus
	Address            Address
	CreatedAt          time.Time
	Status             Status
	History            []HistoryEntry
	LastStatusChangeAt time.Time
	ShippingMethod     ShippingMethod
	Shipping           ShippingDetails
	Cancellation       *Cancellation
	Version            int64
}

func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		paymentStatus:      s.PaymentStatus,
		address:            s.Address,
		createdAt:          s.CreatedAt,
		history:            s.History,
		lastStatusChangeAt: s.LastStatusChangeAt,
		shippingMethod:     s.ShippingMethod,
		shipping:           s.Shipping,
		cancellation:       s.Cancellation,
		version:            s.Version,
		persistedHistory:   len(s.History),
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setOrderNumber(s.OrderNumber),
		o.setArtisanID(s.ArtisanID),
		o.setBuyerID(s.BuyerID),
		o.setTotalAmount(s.TotalAmount),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status

	if s.Version < InitialVersion {
		return nil, errs.NewValueIsOutOfRangeError("version", s.Version, InitialVersion, "unbounded")
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) OrderNumber() string {
	return o.orderNumber
}

func (o *Order) ArtisanID() kernel.UUID {
	return o.artisanID
}

func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

func (o *Order) TotalAmount() decimal.Decimal {
	return o.totalAmount
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) Address() Address {
	return o.address
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) LastStatusChangeAt() time.Time {
	return o.lastStatusChangeAt
}

func (o *Order) ShippingMethod() ShippingMethod {
	return o.shippingMethod
}

func (o *Order) ShippingDetails() ShippingDetails {
	return o.shipping.clone()
}

func (o *Order) Version() int64 {
	return o.version
}

func (o *Order) Cancellation() *Cancellation {
	if o.cancellation == nil {
		return nil
	}
	c := *o.cancellation
	return &c
}

func (o *Order) History() []HistoryEntry {
	out := make([]HistoryEntry, len(o.history))
	for i, e := range o.history {
		out[i] = e.clone()
	}
	return out
}

// NewHistory returns the entries appended since the order was loaded or last saved.
func (o *Order) NewHistory() []HistoryEntry {
	return slices.Clone(o.history[o.persistedHistory:])
}

// MarkPersisted is called by repositories after a successful versioned write.
func (o *Order) MarkPersisted(version int64) {
	o.version = version
	o.persistedHistory = len(o.history)
}

// CheckVersion fails with a ConflictError when expected is set and stale.
func (o *Order) CheckVersion(expected int64) error {
	if expected == 0 || expected == o.version {
		return nil
	}
	return errs.NewConflictError("order", o.id.String(), expected, o.version)
}

// AssignedAgentID returns the agent holding the order, if any.
func (o *Order) AssignedAgentID() (kernel.UUID, bool) {
	if o.shipping.Assignment == nil {
		return kernel.UUID{}, false
	}
	return o.shipping.Assignment.AgentID, true
}

func (o *Order) IsAssigned() bool {
	return o.shipping.Assignment != nil
}

// AuthorizeArtisan lets admins through and requires artisans to own the order.
func (o *Order) AuthorizeArtisan(actor kernel.Actor) error {
	switch actor.Role() {
	case kernel.RoleAdmin:
		return nil
	case kernel.RoleArtisan:
		if actor.ID().IsEqual(o.artisanID) {
			return nil
		}
		return errs.NewAuthorizationError(actor.ID().String(), string(actor.Role()), "order belongs to another artisan")
	default:
		return errs.NewAuthorizationError(actor.ID().String(), string(actor.Role()), "only the artisan or an admin may change this order")
	}
}

// AuthorizeAssignedAgent requires agentID to hold the order's assignment.
func (o *Order) AuthorizeAssignedAgent(agentID kernel.UUID) error {
	assigned, ok := o.AssignedAgentID()
	if !ok || !assigned.IsEqual(agentID) {
		return errs.NewNotAssignedAgentError(o.id.String(), agentID.String())
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = number
	return nil
}

func (o *Order) setArtisanID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("artisanId", err)
	}
	o.artisanID = id
	return nil
}

func (o *Order) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyerId", err)
	}
	o.buyerID = id
	return nil
}

func (o *Order) setTotalAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("totalAmount", fmt.Errorf("%s is not greater than 0", amount.String()))
	}
	o.totalAmount = kernel.Round2(amount)
	return nil
}
