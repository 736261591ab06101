package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStatusHistoryQueryHandler reads the timeline straight from the orders
// and order_status_history tables.
type GetStatusHistoryQueryHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGetStatusHistoryQueryHandler(db *gorm.DB) *GetStatusHistoryQueryHandler {
	return &GetStatusHistoryQueryHandler{db: db, now: time.Now}
}

// WithClock replaces the clock used for the modification window.
func (h *GetStatusHistoryQueryHandler) WithClock(now func() time.Time) *GetStatusHistoryQueryHandler {
	h.now = now
	return h
}

type orderHeader struct {
	id                 uuid.UUID
	orderNumber        string
	artisanID          uuid.UUID
	buyerID            uuid.UUID
	assignedAgentID    uuid.NullUUID
	status             string
	lastStatusChangeAt time.Time
	version            int64
}

func (h *GetStatusHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetStatusHistoryQuery,
) (GetStatusHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStatusHistoryQueryResponse{}, err
	}

	header, err := h.loadHeader(ctx, query.OrderID())
	if err != nil {
		return GetStatusHistoryQueryResponse{}, err
	}
	if err := authorizeReader(query.Actor(), header); err != nil {
		return GetStatusHistoryQueryResponse{}, err
	}

	history, err := h.loadHistory(ctx, header.id)
	if err != nil {
		return GetStatusHistoryQueryResponse{}, err
	}

	status := order.Status(header.status)
	timeline := make([]order.Status, 0, len(history))
	for _, item := range history {
		timeline = append(timeline, item.Status)
	}
	now := h.now()
	return GetStatusHistoryQueryResponse{
		OrderID:             query.OrderID(),
		OrderNumber:         header.orderNumber,
		CurrentStatus:       status,
		CurrentDisplayName:  status.DisplayName(),
		LastStatusChangeAt:  header.lastStatusChangeAt,
		CanModify:           order.Revertible(status, timeline, header.lastStatusChangeAt, now),
		WindowRemainingSecs: order.ModificationWindowRemaining(header.lastStatusChangeAt, now),
		AllowedTransitions:  order.AllowedTransitions(status),
		Version:             header.version,
		History:             history,
	}, nil
}

func (h *GetStatusHistoryQueryHandler) loadHeader(ctx context.Context, orderID kernel.UUID) (orderHeader, error) {
	var header orderHeader
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			artisan_id,
			buyer_id,
			assigned_agent_id,
			status,
			last_status_change_at,
			version
		FROM orders
		WHERE id = ?
	`, orderID.Raw()).Row().Scan(
		&header.id,
		&header.orderNumber,
		&header.artisanID,
		&header.buyerID,
		&header.assignedAgentID,
		&header.status,
		&header.lastStatusChangeAt,
		&header.version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return orderHeader{}, errs.NewObjectNotFoundError("order", orderID.String())
	}
	if err != nil {
		return orderHeader{}, fmt.Errorf("read order: %w", err)
	}
	return header, nil
}

func (h *GetStatusHistoryQueryHandler) loadHistory(ctx context.Context, orderID uuid.UUID) ([]StatusHistoryItem, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			changed_at,
			updated_by,
			updated_by_role,
			note,
			metadata
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY seq
	`, orderID).Rows()
	if err != nil {
		return nil, fmt.Errorf("read order history: %w", err)
	}
	defer rows.Close()

	items := make([]StatusHistoryItem, 0)
	for rows.Next() {
		var (
			item      StatusHistoryItem
			status    string
			role      string
			updatedBy uuid.UUID
			note      sql.NullString
			metadata  []byte
		)
		if err := rows.Scan(&status, &item.Timestamp, &updatedBy, &role, &note, &metadata); err != nil {
			return nil, err
		}

		item.Status = order.Status(status)
		item.DisplayName = item.Status.DisplayName()
		item.UpdatedByRole = kernel.Role(role)
		item.Note = note.String

		id, err := kernel.UUIDOf(updatedBy)
		if err != nil {
			return nil, err
		}
		item.UpdatedBy = id

		if len(metadata) > 0 && string(metadata) != "null" {
			if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
				return nil, fmt.Errorf("decode history metadata: %w", err)
			}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func authorizeReader(actor kernel.Actor, header orderHeader) error {
	id := actor.ID().Raw()
	switch actor.Role() {
	case kernel.RoleAdmin:
		return nil
	case kernel.RoleArtisan:
		if header.artisanID == id {
			return nil
		}
	case kernel.RoleBuyer:
		if header.buyerID == id {
			return nil
		}
	case kernel.RoleShippingAgent:
		if header.assignedAgentID.Valid && header.assignedAgentID.UUID == id {
			return nil
		}
	}
	return errs.NewAuthorizationError(actor.ID().String(), string(actor.Role()), "not a party to this order")
}
