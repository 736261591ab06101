package order

import (
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

func (o *Order) requirePickupRequested() error {
	if o.status != PickupRequested {
		return errs.NewUnexpectedStatusError(o.id.String(), o.status.String(), PickupRequested.String())
	}
	return nil
}

func (o *Order) requireUnassigned() error {
	if a := o.shipping.Assignment; a != nil {
		return errs.NewAlreadyAssignedError(o.id.String(), a.AgentID.String())
	}
	return nil
}

// BroadcastPickupRequest opens the order to agents. targets is what the admin
// asked for; resolved is the agent set the targets matched. An untargeted
// broadcast stores no agent ids so it stays visible to every agent.
func (o *Order) BroadcastPickupRequest(
	actor kernel.Actor,
	targets BroadcastTargets,
	resolved []kernel.UUID,
	note string,
	now time.Time,
) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := o.requirePickupRequested(); err != nil {
		return err
	}
	if err := o.requireUnassigned(); err != nil {
		return err
	}

	by := actor.ID()
	info := &BroadcastInfo{
		BroadcastedAt:    &now,
		BroadcastedBy:    &by,
		Note:             strings.TrimSpace(note),
		TargetPinCodes:   append([]string(nil), targets.PinCodes...),
		TargetDistrict:   strings.TrimSpace(targets.District),
		InterestedAgents: []InterestedAgent{},
	}
	if len(targets.AgentIDs) > 0 || len(targets.PinCodes) > 0 || info.TargetDistrict != "" {
		info.TargetedAgentIDs = append([]kernel.UUID(nil), resolved...)
	}
	o.shipping.Broadcast = info

	auditNote := fmt.Sprintf("Pickup request broadcast to %d agents", len(resolved))
	if info.Note != "" {
		auditNote += ": " + info.Note
	}
	o.appendAudit(actor, auditNote, map[string]any{
		MetaAction:     "broadcast",
		MetaAgentCount: len(resolved),
	}, now)

	event := o.record(EventPickupBroadcast, "", "", ChannelEngine, actor, info.Note, now)
	event.AgentIDs = append([]kernel.UUID(nil), resolved...)
	return nil
}

// ExpressInterest records that an agent would take the delivery. It changes
// neither status nor assignment.
func (o *Order) ExpressInterest(agent AgentCandidate, now time.Time) error {
	if err := agent.ID.Validate(); err != nil {
		return err
	}
	if err := o.requirePickupRequested(); err != nil {
		return err
	}
	if err := o.requireUnassigned(); err != nil {
		return err
	}
	if o.shipping.Broadcast.HasInterest(agent.ID) {
		return errs.NewAlreadyInterestedError(o.id.String(), agent.ID.String())
	}

	if o.shipping.Broadcast == nil {
		o.shipping.Broadcast = &BroadcastInfo{}
	}
	o.shipping.Broadcast.InterestedAgents = append(o.shipping.Broadcast.InterestedAgents, InterestedAgent{
		AgentID:      agent.ID,
		Name:         agent.Name,
		Phone:        agent.Phone,
		Rating:       agent.Rating,
		InterestedAt: now,
	})
	return nil
}

// AssignAgent gives the order to one agent. The status does not change.
func (o *Order) AssignAgent(actor kernel.Actor, agent AgentCandidate, note string, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return errs.NewAuthorizationError(actor.ID().String(), string(actor.Role()), "agent assignment requires an admin")
	}
	if err := agent.ID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewTerminalStateError(o.status.String())
	}
	if err := o.requireUnassigned(); err != nil {
		return err
	}
	if o.shippingMethod == ShippingMethodSelfShip {
		return errs.NewShippingMethodError(o.id.String(), string(o.shippingMethod), string(ShippingMethodPickupAgent))
	}

	o.shipping.Assignment = &Assignment{
		AgentID:    agent.ID,
		AgentName:  agent.Name,
		AgentPhone: agent.Phone,
		AssignedAt: now,
		AssignedBy: actor.ID(),
	}
	if o.shippingMethod == ShippingMethodUnset {
		o.shippingMethod = ShippingMethodPickupAgent
	}

	auditNote := fmt.Sprintf("Pickup agent %s assigned", agent.Name)
	if n := strings.TrimSpace(note); n != "" {
		auditNote += ": " + n
	}
	o.appendAudit(actor, auditNote, map[string]any{
		MetaAction:  "assign_agent",
		MetaAgentID: agent.ID.String(),
	}, now)

	event := o.record(EventAgentAssigned, "", "", ChannelEngine, actor, auditNote, now)
	event.AgentIDs = []kernel.UUID{agent.ID}
	return nil
}

// AcceptDelivery freezes the commission for the assigned agent.
func (o *Order) AcceptDelivery(actor kernel.Actor, commission decimal.Decimal, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := o.AuthorizeAssignedAgent(actor.ID()); err != nil {
		return err
	}
	a := o.shipping.Assignment
	if a.IsAccepted() {
		return errs.NewAlreadyAcceptedError(o.id.String(), *a.AcceptedAt)
	}
	if o.status.IsTerminal() {
		return errs.NewTerminalStateError(o.status.String())
	}

	frozen := kernel.Round2(commission)
	a.AcceptedAt = &now
	a.Commission = &frozen

	o.appendAudit(actor, "Delivery accepted by agent", map[string]any{
		MetaAction:     "accept_delivery",
		MetaAgentID:    actor.ID().String(),
		MetaCommission: frozen.StringFixed(2),
	}, now)
	return nil
}

// ConfirmPickup ships the order through the agent channel and issues a
// tracking number when none exists.
func (o *Order) ConfirmPickup(actor kernel.Actor, proof PickupProof, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := o.AuthorizeAssignedAgent(actor.ID()); err != nil {
		return err
	}
	if !o.shipping.Assignment.IsAccepted() {
		return errs.NewNotAcceptedError(o.id.String(), actor.ID().String())
	}

	trackingNumber := o.shipping.TrackingNumber
	if trackingNumber == "" {
		trackingNumber = GenerateTrackingNumber(now)
	}
	note := proof.Note
	if strings.TrimSpace(note) == "" {
		note = "Picked up by agent"
	}

	event, err := o.transition(Shipped, ChannelAgent, actor, note, map[string]any{
		MetaChannel:        string(ChannelAgent),
		MetaTrackingNumber: trackingNumber,
	}, now)
	if err != nil {
		return err
	}

	o.shippingMethod = ShippingMethodPickupAgent
	o.shipping.TrackingNumber = trackingNumber
	o.shipping.PickedUpAt = &now
	if proof.Image != "" {
		o.shipping.PickupProofImage = proof.Image
	}
	event.TrackingNumber = trackingNumber
	return nil
}

// CompleteDelivery delivers an accepted pickup-agent order through the agent
// channel and returns the frozen commission to credit to the agent.
func (o *Order) CompleteDelivery(actor kernel.Actor, proof DeliveryProof, now time.Time) (decimal.Decimal, error) {
	if err := actor.Validate(); err != nil {
		return decimal.Zero, err
	}
	if err := o.AuthorizeAssignedAgent(actor.ID()); err != nil {
		return decimal.Zero, err
	}
	a := o.shipping.Assignment
	if !a.IsAccepted() || a.Commission == nil {
		return decimal.Zero, errs.NewNotAcceptedError(o.id.String(), actor.ID().String())
	}
	if o.shippingMethod != ShippingMethodPickupAgent {
		return decimal.Zero, errs.NewShippingMethodError(
			o.id.String(), string(o.shippingMethod), string(ShippingMethodPickupAgent))
	}

	note := proof.Note
	if strings.TrimSpace(note) == "" {
		note = "Delivered by agent"
	}
	metadata := map[string]any{MetaChannel: string(ChannelAgent)}
	if proof.OTP != "" {
		metadata["otpVerified"] = true
	}

	event, err := o.transition(Delivered, ChannelAgent, actor, note, metadata, now)
	if err != nil {
		return decimal.Zero, err
	}

	o.shipping.DeliveredAt = &now
	if proof.Image != "" {
		o.shipping.DeliveryProofImage = proof.Image
	}
	if proof.Signature != "" {
		o.shipping.Signature = proof.Signature
	}
	event.TrackingNumber = o.shipping.TrackingNumber

	return *a.Commission, nil
}
