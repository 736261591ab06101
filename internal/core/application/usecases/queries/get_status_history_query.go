// Package queries holds the read side: each query has a constructor-guarded
// request type and a handler returning a read model.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrGetStatusHistoryQueryIsNotConstructed = errors.New(
	"GetStatusHistoryQuery must be created via NewGetStatusHistoryQuery constructor",
)

// GetStatusHistoryQuery asks for an order's status timeline on behalf of an
// actor. Admins, the owning artisan, the buyer and the assigned agent may read it.
type GetStatusHistoryQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetStatusHistoryQuery(orderID kernel.UUID, actor kernel.Actor) (GetStatusHistoryQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetStatusHistoryQuery{}, err
	}
	return GetStatusHistoryQuery{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetStatusHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetStatusHistoryQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetStatusHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusHistoryQueryIsNotConstructed)
}

type StatusHistoryItem struct {
	Status        order.Status
	DisplayName   string
	Timestamp     time.Time
	UpdatedBy     kernel.UUID
	UpdatedByRole kernel.Role
	Note          string
	Metadata      map[string]any
}

// GetStatusHistoryQueryResponse is the order timeline plus what the current
// status still allows.
type GetStatusHistoryQueryResponse struct {
	OrderID             kernel.UUID
	OrderNumber         string
	CurrentStatus       order.Status
	CurrentDisplayName  string
	LastStatusChangeAt  time.Time
	CanModify           bool
	WindowRemainingSecs int64
	AllowedTransitions  []order.Status
	Version             int64
	History             []StatusHistoryItem
}
