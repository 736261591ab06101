// Package orderrepo persists the order aggregate. The order row carries the
// scalar state plus a JSON document for shipping details; the status history
// lives in its own append-only table.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO maps the orders table. Status and assigned agent are plain
// columns so pickup listings can filter on them.
type OrderDTO struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderNumber        string           `gorm:"uniqueIndex;not null"`
	ArtisanID          uuid.UUID        `gorm:"type:uuid;index;not null"`
	BuyerID            uuid.UUID        `gorm:"type:uuid;index;not null"`
	TotalAmount        decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	PaymentStatus      string           `gorm:"not null"`
	Address            AddressDTO       `gorm:"embedded;embeddedPrefix:shipping_"`
	Status             string           `gorm:"index;not null"`
	LastStatusChangeAt time.Time        `gorm:"not null"`
	ShippingMethod     string           `gorm:"not null;default:''"`
	AssignedAgentID    *uuid.UUID       `gorm:"type:uuid;index"`
	Shipping           ShippingDTO      `gorm:"type:jsonb;serializer:json"`
	Cancellation       *CancellationDTO `gorm:"type:jsonb;serializer:json"`
	Version            int64            `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

type AddressDTO struct {
	Name     string
	Phone    string
	Street   string
	City     string
	District string `gorm:"index"`
	State    string
	PinCode  string `gorm:"index"`
}

// StatusHistoryDTO is one row of the append-only status history. Seq is the
// entry's position within its order.
type StatusHistoryDTO struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement"`
	OrderID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_status_history_order_seq,priority:1"`
	Seq           int            `gorm:"not null;uniqueIndex:idx_status_history_order_seq,priority:2"`
	Status        string         `gorm:"not null"`
	ChangedAt     time.Time      `gorm:"not null"`
	UpdatedBy     uuid.UUID      `gorm:"type:uuid;not null"`
	UpdatedByRole string         `gorm:"not null"`
	Note          string         `gorm:"type:text"`
	Metadata      map[string]any `gorm:"type:jsonb;serializer:json"`
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

type InterestedAgentDTO struct {
	AgentID      uuid.UUID `json:"agentId"`
	Name         string    `json:"agentName"`
	Phone        string    `json:"agentPhone,omitempty"`
	Rating       float64   `json:"agentRating"`
	InterestedAt time.Time `json:"interestedAt"`
}

type BroadcastDTO struct {
	BroadcastedAt    *time.Time           `json:"broadcastedAt,omitempty"`
	BroadcastedBy    *uuid.UUID           `json:"broadcastedBy,omitempty"`
	Note             string               `json:"broadcastNote,omitempty"`
	TargetedAgentIDs []uuid.UUID          `json:"targetedAgentIds,omitempty"`
	TargetPinCodes   []string             `json:"targetPinCodes,omitempty"`
	TargetDistrict   string               `json:"targetDistrict,omitempty"`
	InterestedAgents []InterestedAgentDTO `json:"interestedAgents"`
}

type AssignmentDTO struct {
	AgentID    uuid.UUID        `json:"assignedAgentId"`
	AgentName  string           `json:"agentName"`
	AgentPhone string           `json:"agentPhone,omitempty"`
	AssignedAt time.Time        `json:"agentAssignedAt"`
	AssignedBy uuid.UUID        `json:"assignedBy"`
	AcceptedAt *time.Time       `json:"agentAcceptedAt,omitempty"`
	Commission *decimal.Decimal `json:"agentCommission,omitempty"`
}

type ShippingDTO struct {
	Broadcast          *BroadcastDTO  `json:"broadcastInfo,omitempty"`
	Assignment         *AssignmentDTO `json:"assignment,omitempty"`
	Carrier            string         `json:"carrier,omitempty"`
	TrackingNumber     string         `json:"trackingNumber,omitempty"`
	EstimatedDelivery  *time.Time     `json:"estimatedDelivery,omitempty"`
	PickedUpAt         *time.Time     `json:"pickedUpAt,omitempty"`
	DeliveredAt        *time.Time     `json:"deliveredAt,omitempty"`
	PickupProofImage   string         `json:"pickupProofImage,omitempty"`
	DeliveryProofImage string         `json:"deliveryProofImage,omitempty"`
	Signature          string         `json:"signature,omitempty"`
	ConfirmedBy        string         `json:"confirmedBy,omitempty"`
}

type CancellationDTO struct {
	Reason       string    `json:"reason"`
	CancelledBy  uuid.UUID `json:"cancelledBy"`
	CancelledAt  time.Time `json:"cancelledAt"`
	RefundStatus *string   `json:"refundStatus,omitempty"`
}

func fromDomain(o *order.Order) OrderDTO {
	var assignedAgentID *uuid.UUID
	if id, ok := o.AssignedAgentID(); ok {
		raw := id.Raw()
		assignedAgentID = &raw
	}

	addr := o.Address()
	return OrderDTO{
		ID:            o.ID().Raw(),
		OrderNumber:   o.OrderNumber(),
		ArtisanID:     o.ArtisanID().Raw(),
		BuyerID:       o.BuyerID().Raw(),
		TotalAmount:   o.TotalAmount(),
		PaymentStatus: string(o.PaymentStatus()),
		Address: AddressDTO{
			Name:     addr.Name,
			Phone:    addr.Phone,
			Street:   addr.Street,
			City:     addr.City,
			District: addr.District,
			State:    addr.State,
			PinCode:  addr.PinCode,
		},
		Status:             o.Status().String(),
		LastStatusChangeAt: o.LastStatusChangeAt(),
		ShippingMethod:     string(o.ShippingMethod()),
		AssignedAgentID:    assignedAgentID,
		Shipping:           shippingFromDomain(o.ShippingDetails()),
		Cancellation:       cancellationFromDomain(o.Cancellation()),
		Version:            o.Version(),
		CreatedAt:          o.CreatedAt(),
	}
}

func shippingFromDomain(d order.ShippingDetails) ShippingDTO {
	dto := ShippingDTO{
		Carrier:            d.Carrier,
		TrackingNumber:     d.TrackingNumber,
		EstimatedDelivery:  d.EstimatedDelivery,
		PickedUpAt:         d.PickedUpAt,
		DeliveredAt:        d.DeliveredAt,
		PickupProofImage:   d.PickupProofImage,
		DeliveryProofImage: d.DeliveryProofImage,
		Signature:          d.Signature,
		ConfirmedBy:        d.ConfirmedBy,
	}

	if b := d.Broadcast; b != nil {
		bd := &BroadcastDTO{
			BroadcastedAt:    b.BroadcastedAt,
			Note:             b.Note,
			TargetPinCodes:   b.TargetPinCodes,
			TargetDistrict:   b.TargetDistrict,
			InterestedAgents: make([]InterestedAgentDTO, 0, len(b.InterestedAgents)),
		}
		if b.BroadcastedBy != nil {
			by := b.BroadcastedBy.Raw()
			bd.BroadcastedBy = &by
		}
		for _, id := range b.TargetedAgentIDs {
			bd.TargetedAgentIDs = append(bd.TargetedAgentIDs, id.Raw())
		}
		for _, ia := range b.InterestedAgents {
			bd.InterestedAgents = append(bd.InterestedAgents, InterestedAgentDTO{
				AgentID:      ia.AgentID.Raw(),
				Name:         ia.Name,
				Phone:        ia.Phone,
				Rating:       ia.Rating,
				InterestedAt: ia.InterestedAt,
			})
		}
		dto.Broadcast = bd
	}

	if a := d.Assignment; a != nil {
		dto.Assignment = &AssignmentDTO{
			AgentID:    a.AgentID.Raw(),
			AgentName:  a.AgentName,
			AgentPhone: a.AgentPhone,
			AssignedAt: a.AssignedAt,
			AssignedBy: a.AssignedBy.Raw(),
			AcceptedAt: a.AcceptedAt,
			Commission: a.Commission,
		}
	}

	return dto
}

func cancellationFromDomain(c *order.Cancellation) *CancellationDTO {
	if c == nil {
		return nil
	}
	return &CancellationDTO{
		Reason:       c.Reason,
		CancelledBy:  c.CancelledBy.Raw(),
		CancelledAt:  c.CancelledAt,
		RefundStatus: c.RefundStatus,
	}
}

func historyFromDomain(orderID kernel.UUID, firstSeq int, entries []order.HistoryEntry) []StatusHistoryDTO {
	rows := make([]StatusHistoryDTO, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, StatusHistoryDTO{
			OrderID:       orderID.Raw(),
			Seq:           firstSeq + i,
			Status:        e.Status.String(),
			ChangedAt:     e.Timestamp,
			UpdatedBy:     e.UpdatedBy.Raw(),
			UpdatedByRole: string(e.UpdatedByRole),
			Note:          e.Note,
			Metadata:      e.Metadata,
		})
	}
	return rows
}

func toDomain(dto OrderDTO, history []StatusHistoryDTO) (*order.Order, error) {
	ids, err := parseUUIDs(dto.ID, dto.ArtisanID, dto.BuyerID)
	if err != nil {
		return nil, err
	}

	shipping, err := shippingToDomain(dto.Shipping)
	if err != nil {
		return nil, err
	}

	cancellation, err := cancellationToDomain(dto.Cancellation)
	if err != nil {
		return nil, err
	}

	entries := make([]order.HistoryEntry, 0, len(history))
	for _, h := range history {
		by, byErr := kernel.UUIDOf(h.UpdatedBy)
		if byErr != nil {
			return nil, byErr
		}
		entries = append(entries, order.HistoryEntry{
			Status:        order.Status(h.Status),
			Timestamp:     h.ChangedAt,
			UpdatedBy:     by,
			UpdatedByRole: kernel.Role(h.UpdatedByRole),
			Note:          h.Note,
			Metadata:      h.Metadata,
		})
	}

	return order.RestoreOrder(order.State{
		ID:            ids[0],
		OrderNumber:   dto.OrderNumber,
		ArtisanID:     ids[1],
		BuyerID:       ids[2],
		TotalAmount:   dto.TotalAmount,
		PaymentStatus: order.PaymentStatus(dto.PaymentStatus),
		Address: order.Address{
			Name:     dto.Address.Name,
			Phone:    dto.Address.Phone,
			Street:   dto.Address.Street,
			City:     dto.Address.City,
			District: dto.Address.District,
			State:    dto.Address.State,
			PinCode:  dto.Address.PinCode,
		},
		CreatedAt:          dto.CreatedAt,
		Status:             order.Status(dto.Status),
		History:            entries,
		LastStatusChangeAt: dto.LastStatusChangeAt,
		ShippingMethod:     order.ShippingMethod(dto.ShippingMethod),
		Shipping:           shipping,
		Cancellation:       cancellation,
		Version:            dto.Version,
	})
}

func shippingToDomain(dto ShippingDTO) (order.ShippingDetails, error) {
	d := order.ShippingDetails{
		Carrier:            dto.Carrier,
		TrackingNumber:     dto.TrackingNumber,
		EstimatedDelivery:  dto.EstimatedDelivery,
		PickedUpAt:         dto.PickedUpAt,
		DeliveredAt:        dto.DeliveredAt,
		PickupProofImage:   dto.PickupProofImage,
		DeliveryProofImage: dto.DeliveryProofImage,
		Signature:          dto.Signature,
		ConfirmedBy:        dto.ConfirmedBy,
	}

	if b := dto.Broadcast; b != nil {
		info := &order.BroadcastInfo{
			BroadcastedAt:    b.BroadcastedAt,
			Note:             b.Note,
			TargetPinCodes:   b.TargetPinCodes,
			TargetDistrict:   b.TargetDistrict,
			InterestedAgents: make([]order.InterestedAgent, 0, len(b.InterestedAgents)),
		}
		if b.BroadcastedBy != nil {
			by, err := kernel.UUIDOf(*b.BroadcastedBy)
			if err != nil {
				return order.ShippingDetails{}, err
			}
			info.BroadcastedBy = &by
		}
		targeted, err := parseUUIDs(b.TargetedAgentIDs...)
		if err != nil {
			return order.ShippingDetails{}, err
		}
		info.TargetedAgentIDs = targeted
		for _, ia := range b.InterestedAgents {
			id, idErr := kernel.UUIDOf(ia.AgentID)
			if idErr != nil {
				return order.ShippingDetails{}, idErr
			}
			info.InterestedAgents = append(info.InterestedAgents, order.InterestedAgent{
				AgentID:      id,
				Name:         ia.Name,
				Phone:        ia.Phone,
				Rating:       ia.Rating,
				InterestedAt: ia.InterestedAt,
			})
		}
		d.Broadcast = info
	}

	if a := dto.Assignment; a != nil {
		ids, err := parseUUIDs(a.AgentID, a.AssignedBy)
		if err != nil {
			return order.ShippingDetails{}, err
		}
		d.Assignment = &order.Assignment{
			AgentID:    ids[0],
			AgentName:  a.AgentName,
			AgentPhone: a.AgentPhone,
			AssignedAt: a.AssignedAt,
			AssignedBy: ids[1],
			AcceptedAt: a.AcceptedAt,
			Commission: a.Commission,
		}
	}

	return d, nil
}

func cancellationToDomain(dto *CancellationDTO) (*order.Cancellation, error) {
	if dto == nil {
		return nil, nil
	}
	by, err := kernel.UUIDOf(dto.CancelledBy)
	if err != nil {
		return nil, err
	}
	return &order.Cancellation{
		Reason:       dto.Reason,
		CancelledBy:  by,
		CancelledAt:  dto.CancelledAt,
		RefundStatus: dto.RefundStatus,
	}, nil
}

func parseUUIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDOf(r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
