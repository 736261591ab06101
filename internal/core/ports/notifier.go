package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// Notifier hands committed order events to the notification channel.
// Callers log and swallow its errors.
type Notifier interface {
	Notify(ctx context.Context, events ...order.Event) error
}
