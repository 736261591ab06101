package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/logger"
)

// TransitionRecorder counts committed status transitions.
type TransitionRecorder interface {
	IncTransition(from, to, channel string)
}

// EventDispatcher forwards events of a committed transaction. Notification
// failures are logged and never returned: the status change already stands.
type EventDispatcher struct {
	notifier ports.Notifier
	recorder TransitionRecorder
	log      *logger.Logger
}

func NewEventDispatcher(notifier ports.Notifier, recorder TransitionRecorder, log *logger.Logger) *EventDispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &EventDispatcher{notifier: notifier, recorder: recorder, log: log}
}

func (d *EventDispatcher) Dispatch(ctx context.Context, events []order.Event) {
	if d == nil || len(events) == 0 {
		return
	}

	for _, e := range events {
		if e.IsTransition() && d.recorder != nil {
			d.recorder.IncTransition(e.From.String(), e.To.String(), string(e.Channel))
		}
	}

	if d.notifier == nil {
		return
	}
	if err := d.notifier.Notify(ctx, events...); err != nil {
		logCtx := d.log.WithFields(ctx, map[string]any{
			"order_id":    events[0].OrderID.String(),
			"event_type":  string(events[0].Type),
			"event_count": len(events),
		})
		d.log.Warn(logCtx, "order notification enqueue failed", err)
	}
}

// clock is embedded by handlers that stamp domain changes.
type clock struct {
	now func() time.Time
}

func systemClock() clock {
	return clock{now: time.Now}
}

func (c clock) Now() time.Time {
	if c.now == nil {
		return time.Now().UTC()
	}
	return c.now().UTC()
}
