package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

type EventType string

const (
	EventStatusUpdated   EventType = "order.status_updated"
	EventShipped         EventType = "order.shipped"
	EventDelivered       EventType = "order.delivered"
	EventCancelled       EventType = "order.cancelled"
	EventPickupBroadcast EventType = "order.pickup_broadcast"
	EventAgentAssigned   EventType = "order.agent_assigned"
)

// Event is a notification-worthy fact recorded by the aggregate. Handlers
// drain events after the transaction commits.
type Event struct {
	ID                kernel.UUID
	Type              EventType
	OrderID           kernel.UUID
	OrderNumber       string
	ArtisanID         kernel.UUID
	BuyerID           kernel.UUID
	From              Status
	To                Status
	Channel           Channel
	ActorID           kernel.UUID
	ActorRole         kernel.Role
	Note              string
	Carrier           string
	TrackingNumber    string
	EstimatedDelivery *time.Time
	RefundStatus      *string
	AgentIDs          []kernel.UUID
	OccurredAt        time.Time
}

// IsTransition reports whether the event records a status change.
func (e Event) IsTransition() bool {
	return e.To != "" && e.From != ""
}

func (o *Order) record(t EventType, from, to Status, ch Channel, actor kernel.Actor, note string, now time.Time) *Event {
	o.events = append(o.events, Event{
		ID:          kernel.NewUUID(),
		Type:        t,
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
		ArtisanID:   o.artisanID,
		BuyerID:     o.buyerID,
		From:        from,
		To:          to,
		Channel:     ch,
		ActorID:     actor.ID(),
		ActorRole:   actor.Role(),
		Note:        note,
		OccurredAt:  now,
	})
	return &o.events[len(o.events)-1]
}

func (o *Order) Events() []Event {
	return append([]Event(nil), o.events...)
}

// PullEvents returns the recorded events and clears them.
func (o *Order) PullEvents() []Event {
	events := o.events
	o.events = nil
	return events
}
