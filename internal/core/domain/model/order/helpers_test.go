package order_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return actor
}

func actorWithID(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return actor
}

func newOrder(t *testing.T, payment order.PaymentStatus) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"ORD-1001",
		kernel.NewUUID(),
		kernel.NewUUID(),
		decimal.NewFromInt(1000),
		payment,
		order.Address{City: "Bengaluru", District: "Bengaluru Urban", PinCode: "560001"},
		baseTime,
	)
	require.NoError(t, err)
	return o
}

// advance walks the order through the artisan operations one minute apart and
// returns the time of the last transition. Shipped goes through self shipping.
func advance(t *testing.T, o *order.Order, statuses ...order.Status) time.Time {
	t.Helper()
	artisan := actorWithID(t, o.ArtisanID(), kernel.RoleArtisan)
	at := o.LastStatusChangeAt()
	for _, s := range statuses {
		at = at.Add(time.Minute)
		switch s {
		case order.Shipped:
			require.NoError(t, o.ConfirmSelfShipping(artisan, order.SelfShipment{Carrier: "bluedart", TrackingNumber: "12345678"}, at))
		case order.Delivered:
			require.NoError(t, o.MarkDelivered(artisan, order.DeliveryConfirmation{}, at))
		case order.Cancelled:
			require.NoError(t, o.Cancel(artisan, "out of stock", at))
		default:
			require.NoError(t, o.UpdateStatus(s, artisan, "", at))
		}
	}
	return at
}

func statuses(entries []order.HistoryEntry) []order.Status {
	out := make([]order.Status, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Status)
	}
	return out
}
