package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// transition moves the order to `to` through ch and appends the history entry.
func (o *Order) transition(
	to Status,
	ch Channel,
	actor kernel.Actor,
	note string,
	metadata map[string]any,
	now time.Time,
) (*Event, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	from := o.status
	if err := CanTransition(from, to, ch); err != nil {
		return nil, err
	}

	o.history = append(o.history, newHistoryEntry(to, actor, note, metadata, now))
	o.status = to
	o.lastStatusChangeAt = now

	eventType := EventStatusUpdated
	switch to {
	case Shipped:
		eventType = EventShipped
	case Delivered:
		eventType = EventDelivered
	case Cancelled:
		eventType = EventCancelled
	}
	return o.record(eventType, from, to, ch, actor, note, now), nil
}

// appendAudit adds a same-status entry that leaves lastStatusChangeAt untouched.
func (o *Order) appendAudit(actor kernel.Actor, note string, metadata map[string]any, now time.Time) {
	o.history = append(o.history, newHistoryEntry(o.status, actor, note, metadata, now))
}

// UpdateStatus is the generic engine path used by the artisan convenience
// operations. It only sets received, packed or pickup requested.
func (o *Order) UpdateStatus(to Status, actor kernel.Actor, note string, now time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !slices.Contains(statusUpdateTargets, to) {
		return errs.NewInvalidTransitionError(o.status.String(), to.String(), statusStrings(StatusUpdateTargets(o.status)))
	}
	if strings.TrimSpace(note) == "" {
		note = fmt.Sprintf("Status updated to %s", to.DisplayName())
	}
	_, err := o.transition(to, ChannelEngine, actor, note, nil, now)
	return err
}

// ConfirmSelfShipping ships a packed or pickup-requested order with a carrier
// chosen by the artisan.
func (o *Order) ConfirmSelfShipping(actor kernel.Actor, s SelfShipment, now time.Time) error {
	carrier := strings.ToLower(strings.TrimSpace(s.Carrier))
	if carrier == "" {
		return errs.NewValueIsRequiredError("carrier")
	}
	trackingNumber := strings.TrimSpace(s.TrackingNumber)
	if err := ValidateTrackingNumber(carrier, trackingNumber); err != nil {
		return err
	}
	if o.shippingMethod == ShippingMethodPickupAgent {
		return errs.NewShippingMethodError(o.id.String(), string(o.shippingMethod), string(ShippingMethodSelfShip))
	}

	eta := now.Add(DefaultDeliveryEstimate)
	if s.EstimatedDelivery != nil {
		eta = *s.EstimatedDelivery
	}

	note := s.Note
	if strings.TrimSpace(note) == "" {
		note = fmt.Sprintf("Shipped via %s, tracking %s", carrierName(carrier), trackingNumber)
	}

	event, err := o.transition(Shipped, ChannelSelfShip, actor, note, map[string]any{
		MetaChannel:        string(ChannelSelfShip),
		MetaTrackingNumber: trackingNumber,
	}, now)
	if err != nil {
		return err
	}

	o.shippingMethod = ShippingMethodSelfShip
	o.shipping.Carrier = carrier
	o.shipping.TrackingNumber = trackingNumber
	o.shipping.EstimatedDelivery = &eta

	event.Carrier = carrier
	event.TrackingNumber = trackingNumber
	event.EstimatedDelivery = &eta
	return nil
}

// MarkDelivered is the engine path to delivered; it does not touch agent
// earnings, so agent deliveries must complete through CompleteDelivery.
func (o *Order) MarkDelivered(actor kernel.Actor, c DeliveryConfirmation, now time.Time) error {
	if o.shippingMethod == ShippingMethodPickupAgent {
		return errs.NewShippingMethodError(o.id.String(), string(o.shippingMethod), string(ShippingMethodSelfShip))
	}
	note := c.Note
	if strings.TrimSpace(note) == "" {
		note = "Order delivered"
	}
	metadata := map[string]any{}
	if c.ConfirmedBy != "" {
		metadata["confirmedBy"] = c.ConfirmedBy
	}

	event, err := o.transition(Delivered, ChannelEngine, actor, note, metadata, now)
	if err != nil {
		return err
	}

	o.shipping.DeliveredAt = &now
	if c.Signature != "" {
		o.shipping.Signature = c.Signature
	}
	if c.ConfirmedBy != "" {
		o.shipping.ConfirmedBy = c.ConfirmedBy
	}
	event.TrackingNumber = o.shipping.TrackingNumber
	return nil
}

// Cancel requires a reason. A refund is flagged pending only when payment
// had completed.
func (o *Order) Cancel(actor kernel.Actor, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	event, err := o.transition(Cancelled, ChannelEngine, actor, "Order cancelled: "+reason, map[string]any{
		MetaReason: reason,
	}, now)
	if err != nil {
		return err
	}

	var refund *string
	if o.paymentStatus == PaymentCompleted {
		pending := RefundPending
		refund = &pending
	}
	o.cancellation = &Cancellation{
		Reason:       reason,
		CancelledBy:  actor.ID(),
		CancelledAt:  now,
		RefundStatus: refund,
	}
	event.RefundStatus = refund
	return nil
}

// AddNote appends commentary under the current status.
func (o *Order) AddNote(actor kernel.Actor, note string, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return errs.NewValueIsRequiredError("note")
	}
	o.appendAudit(actor, note, map[string]any{MetaNoteOnly: true}, now)
	return nil
}

func (o *Order) CanModifyStatus(now time.Time) bool {
	return WithinModificationWindow(o.lastStatusChangeAt, now)
}

func (o *Order) ModificationWindowRemaining(now time.Time) int64 {
	return ModificationWindowRemaining(o.lastStatusChangeAt, now)
}

// WithinModificationWindow reports whether a status set at lastChange may
// still be reverted at now. The boundary itself is inside the window.
func WithinModificationWindow(lastChange, now time.Time) bool {
	return now.Sub(lastChange) <= ModificationWindow
}

// ModificationWindowRemaining returns whole seconds left, never negative.
func ModificationWindowRemaining(lastChange, now time.Time) int64 {
	remaining := ModificationWindow - now.Sub(lastChange)
	if remaining <= 0 {
		return 0
	}
	return int64(remaining / time.Second)
}

// previousDistinctStatus walks history backwards to the most recent entry
// whose status differs from the current one, skipping same-status notes.
func (o *Order) previousDistinctStatus() (Status, bool) {
	statuses := make([]Status, 0, len(o.history))
	for _, e := range o.history {
		statuses = append(statuses, e.Status)
	}
	return previousDistinct(o.status, statuses)
}

func previousDistinct(current Status, history []Status) (Status, bool) {
	if len(history) < 2 {
		return "", false
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i] != current {
			return history[i], true
		}
	}
	return "", false
}

// Revertible reports whether RevertStatus would succeed at now for an order in
// current whose timeline, oldest first, is history.
func Revertible(current Status, history []Status, lastChange, now time.Time) bool {
	if !WithinModificationWindow(lastChange, now) || current.IsTerminal() {
		return false
	}
	_, ok := previousDistinct(current, history)
	return ok
}

// RevertStatus returns the order to its previous distinct status while the
// modification window is open.
func (o *Order) RevertStatus(actor kernel.Actor, reason string, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !o.CanModifyStatus(now) {
		return errs.NewWindowExpiredError(o.lastStatusChangeAt, ModificationWindow)
	}
	if o.status.IsTerminal() {
		return errs.NewTerminalStateError(o.status.String())
	}
	previous, ok := o.previousDistinctStatus()
	if !ok {
		return errs.NewNoHistoryError(o.id.String(), len(o.history))
	}

	from := o.status
	reason = strings.TrimSpace(reason)
	note := fmt.Sprintf("Status reverted from %s to %s", from.DisplayName(), previous.DisplayName())
	if reason != "" {
		note += ": " + reason
	}

	o.history = append(o.history, newHistoryEntry(previous, actor, note, map[string]any{
		MetaRevertedFrom: from.String(),
		MetaReason:       reason,
	}, now))
	o.status = previous
	o.lastStatusChangeAt = now
	if from == Shipped {
		o.clearShipment()
	}
	o.record(EventStatusUpdated, from, previous, ChannelEngine, actor, note, now)
	return nil
}

// clearShipment drops what shipping recorded. An agent assignment survives,
// so the order keeps the pickup agent method when it has one.
func (o *Order) clearShipment() {
	o.shipping.Carrier = ""
	o.shipping.TrackingNumber = ""
	o.shipping.EstimatedDelivery = nil
	o.shipping.PickedUpAt = nil
	o.shipping.PickupProofImage = ""
	if o.shipping.Assignment != nil {
		o.shippingMethod = ShippingMethodPickupAgent
	} else {
		o.shippingMethod = ShippingMethodUnset
	}
}

// OverrideStatus sets any status, bypassing the transition table, and leaves
// an audit trail. Reserved for admins.
func (o *Order) OverrideStatus(actor kernel.Actor, to Status, reason string, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return errs.NewAuthorizationError(actor.ID().String(), string(actor.Role()), "status override requires an admin")
	}
	if err := errors.Join(requiredStatus(to), requiredReason(reason)); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)

	from := o.status
	_, err := o.transition(to, ChannelAdminOverride, actor, "Admin override: "+reason, map[string]any{
		MetaAdminOverride:  true,
		MetaPreviousStatus: from.String(),
		MetaReason:         reason,
	}, now)
	return err
}

func requiredStatus(s Status) error {
	if s == "" {
		return errs.NewValueIsRequiredError("status")
	}
	return nil
}

func requiredReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	return nil
}

func carrierName(code string) string {
	if c, ok := LookupCarrier(code); ok {
		return c.Name
	}
	return code
}
