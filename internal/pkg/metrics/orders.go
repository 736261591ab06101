package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "marketplace"

// OrderMetrics counts committed status transitions and outbox publishing.
type OrderMetrics struct {
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_transitions_total",
		Help:      "Committed order status transitions by channel.",
	}, []string{"from", "to", "channel"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_published_total",
		Help:      "Outbox notifications handed to the broker, by event type and result.",
	}, []string{"event_type", "result"})
	reg.MustRegister(transitions, notifications)
	return &OrderMetrics{transitions: transitions, notifications: notifications}
}

func (m *OrderMetrics) IncTransition(from, to, channel string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to), normalizeLabel(channel)).Inc()
}

func (m *OrderMetrics) IncNotification(eventType string, ok bool) {
	if m == nil || m.notifications == nil {
		return
	}
	result := "published"
	if !ok {
		result = "failed"
	}
	m.notifications.WithLabelValues(normalizeLabel(eventType), result).Inc()
}
