package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

type OrderRepository interface {
	// Add persists a new order with its full history.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order if its stored version still matches the loaded
	// one, appends new history rows, and bumps the version. A stale version
	// yields errs.ConflictError.
	Update(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListOpenPickupRequests returns unassigned orders in pickup_requested.
	ListOpenPickupRequests(ctx context.Context) ([]*order.Order, error)
}
