// Package outboxrepo stores order notifications in a transactional outbox
// until the publisher job hands them to the broker.
package outboxrepo

import (
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

type OutboxEventDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventType    string     `gorm:"type:varchar(64);not null"`
	Payload      []byte     `gorm:"type:jsonb;not null"`
	OccurredAt   time.Time  `gorm:"not null"`
	PublishedAt  *time.Time `gorm:"index"`
	AttemptCount int        `gorm:"not null;default:0"`
	LastError    string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"index"`
}

func (OutboxEventDTO) TableName() string {
	return "outbox_events"
}

// Message is the JSON document published for each order event. Email and
// push senders consume it from the topic.
type Message struct {
	EventID           string     `json:"eventId"`
	Type              string     `json:"type"`
	OrderID           string     `json:"orderId"`
	OrderNumber       string     `json:"orderNumber"`
	ArtisanID         string     `json:"artisanId"`
	BuyerID           string     `json:"buyerId"`
	From              string     `json:"fromStatus,omitempty"`
	To                string     `json:"toStatus,omitempty"`
	Channel           string     `json:"channel,omitempty"`
	ActorID           string     `json:"actorId"`
	ActorRole         string     `json:"actorRole"`
	Note              string     `json:"note,omitempty"`
	Carrier           string     `json:"carrier,omitempty"`
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	RefundStatus      *string    `json:"refundStatus,omitempty"`
	AgentIDs          []string   `json:"agentIds,omitempty"`
	OccurredAt        time.Time  `json:"occurredAt"`
}

func messageFromEvent(e order.Event) Message {
	m := Message{
		EventID:           e.ID.String(),
		Type:              string(e.Type),
		OrderID:           e.OrderID.String(),
		OrderNumber:       e.OrderNumber,
		ArtisanID:         e.ArtisanID.String(),
		BuyerID:           e.BuyerID.String(),
		From:              e.From.String(),
		To:                e.To.String(),
		Channel:           string(e.Channel),
		ActorID:           e.ActorID.String(),
		ActorRole:         string(e.ActorRole),
		Note:              e.Note,
		Carrier:           e.Carrier,
		TrackingNumber:    e.TrackingNumber,
		EstimatedDelivery: e.EstimatedDelivery,
		RefundStatus:      e.RefundStatus,
		OccurredAt:        e.OccurredAt,
	}
	for _, id := range e.AgentIDs {
		m.AgentIDs = append(m.AgentIDs, id.String())
	}
	return m
}

func fromEvent(e order.Event) (OutboxEventDTO, error) {
	payload, err := json.Marshal(messageFromEvent(e))
	if err != nil {
		return OutboxEventDTO{}, err
	}
	return OutboxEventDTO{
		ID:         e.ID.Raw(),
		OrderID:    e.OrderID.Raw(),
		EventType:  string(e.Type),
		Payload:    payload,
		OccurredAt: e.OccurredAt,
	}, nil
}

// Record is an outbox row ready for publishing.
type Record struct {
	ID           uuid.UUID
	OrderID      string
	EventType    string
	Payload      []byte
	AttemptCount int
}

func toRecord(dto OutboxEventDTO) Record {
	return Record{
		ID:           dto.ID,
		OrderID:      dto.OrderID.String(),
		EventType:    dto.EventType,
		Payload:      dto.Payload,
		AttemptCount: dto.AttemptCount,
	}
}
