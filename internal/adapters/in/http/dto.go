package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/order"
)

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=500"`
}

type NoteRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type RequiredNoteRequest struct {
	Note string `json:"note" validate:"required,max=500"`
}

type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ConfirmSelfShippingRequest struct {
	Carrier           string     `json:"carrier" validate:"required"`
	TrackingNumber    string     `json:"trackingNumber"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	Note              string     `json:"note" validate:"max=500"`
}

type MarkAsDeliveredRequest struct {
	Note        string `json:"note" validate:"max=500"`
	Signature   string `json:"signature"`
	ConfirmedBy string `json:"confirmedBy"`
}

type OverrideStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"required,max=500"`
}

type BroadcastRequest struct {
	AgentIDs []string `json:"agentIds" validate:"dive,uuid"`
	PinCodes []string `json:"pinCodes" validate:"dive,len=6,numeric"`
	District string   `json:"district"`
	Note     string   `json:"note" validate:"max=500"`
}

type AssignAgentRequest struct {
	AgentID string `json:"agentId" validate:"required,uuid"`
	Note    string `json:"note" validate:"max=500"`
}

type PickupRequest struct {
	Note  string `json:"note" validate:"max=500"`
	Image string `json:"image"`
}

type CompleteDeliveryRequest struct {
	Note      string `json:"note" validate:"max=500"`
	Image     string `json:"image"`
	Signature string `json:"signature"`
	OTP       string `json:"otp"`
}

type PayoutRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type BroadcastResponse struct {
	Count  int              `json:"count"`
	Agents []AgentCandidate `json:"agents"`
}

type AgentCandidate struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Rating float64 `json:"rating"`
}

type AgentAvailabilityResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Active   bool     `json:"active"`
	Eligible bool     `json:"eligible"`
	PinCodes []string `json:"pinCodes"`
}

type AcceptResponse struct {
	Commission string `json:"commission"`
}

type PayoutResponse struct {
	PayoutID string `json:"payoutId"`
}

type HistoryItem struct {
	Status        string         `json:"status"`
	DisplayName   string         `json:"displayName"`
	Timestamp     time.Time      `json:"timestamp"`
	UpdatedBy     string         `json:"updatedBy"`
	UpdatedByRole string         `json:"updatedByRole"`
	Note          string         `json:"note,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

type HistoryResponse struct {
	OrderID             string        `json:"orderId"`
	OrderNumber         string        `json:"orderNumber"`
	CurrentStatus       string        `json:"currentStatus"`
	CurrentDisplayName  string        `json:"currentDisplayName"`
	LastStatusChangeAt  time.Time     `json:"lastStatusChangeAt"`
	CanModify           bool          `json:"canModify"`
	WindowRemainingSecs int64         `json:"windowRemainingSeconds"`
	AllowedTransitions  []string      `json:"allowedTransitions"`
	Version             int64         `json:"version"`
	History             []HistoryItem `json:"history"`
}

type Address struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	PinCode  string `json:"pinCode"`
}

type OpportunityResponse struct {
	OrderID             string     `json:"orderId"`
	OrderNumber         string     `json:"orderNumber"`
	TotalAmount         string     `json:"totalAmount"`
	PickupAddress       Address    `json:"pickupAddress"`
	BroadcastedAt       *time.Time `json:"broadcastedAt,omitempty"`
	BroadcastNote       string     `json:"broadcastNote,omitempty"`
	Targeted            bool       `json:"targeted"`
	AlreadyInterested   bool       `json:"alreadyInterested"`
	InterestedCount     int        `json:"interestedCount"`
	EstimatedCommission string     `json:"estimatedCommission"`
}

func toHistoryResponse(r queries.GetStatusHistoryQueryResponse) HistoryResponse {
	allowed := make([]string, 0, len(r.AllowedTransitions))
	for _, s := range r.AllowedTransitions {
		allowed = append(allowed, s.String())
	}
	items := make([]HistoryItem, 0, len(r.History))
	for _, h := range r.History {
		items = append(items, HistoryItem{
			Status:        h.Status.String(),
			DisplayName:   h.DisplayName,
			Timestamp:     h.Timestamp,
			UpdatedBy:     h.UpdatedBy.String(),
			UpdatedByRole: string(h.UpdatedByRole),
			Note:          h.Note,
			Metadata:      h.Metadata,
		})
	}
	return HistoryResponse{
		OrderID:             r.OrderID.String(),
		OrderNumber:         r.OrderNumber,
		CurrentStatus:       r.CurrentStatus.String(),
		CurrentDisplayName:  r.CurrentDisplayName,
		LastStatusChangeAt:  r.LastStatusChangeAt,
		CanModify:           r.CanModify,
		WindowRemainingSecs: r.WindowRemainingSecs,
		AllowedTransitions:  allowed,
		Version:             r.Version,
		History:             items,
	}
}

func toAddress(a order.Address) Address {
	return Address{
		Name:     a.Name,
		Phone:    a.Phone,
		Street:   a.Street,
		City:     a.City,
		District: a.District,
		State:    a.State,
		PinCode:  a.PinCode,
	}
}

func toOpportunityResponses(ops []queries.Opportunity) []OpportunityResponse {
	out := make([]OpportunityResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, OpportunityResponse{
			OrderID:             op.OrderID.String(),
			OrderNumber:         op.OrderNumber,
			TotalAmount:         op.TotalAmount.StringFixed(2),
			PickupAddress:       toAddress(op.PickupAddress),
			BroadcastedAt:       op.BroadcastedAt,
			BroadcastNote:       op.BroadcastNote,
			Targeted:            op.Targeted,
			AlreadyInterested:   op.AlreadyInterested,
			InterestedCount:     op.InterestedCount,
			EstimatedCommission: op.EstimatedCommission.StringFixed(2),
		})
	}
	return out
}

func toCandidates(agents []order.AgentCandidate) []AgentCandidate {
	out := make([]AgentCandidate, 0, len(agents))
	for _, a := range agents {
		out = append(out, AgentCandidate{ID: a.ID.String(), Name: a.Name, Phone: a.Phone, Rating: a.Rating})
	}
	return out
}
