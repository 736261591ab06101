package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("starts pending with one history entry", func(t *testing.T) {
		o := newOrder(t, order.PaymentCompleted)

		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.InitialVersion, o.Version())
		assert.Equal(t, baseTime, o.LastStatusChangeAt())
		assert.Equal(t, order.ShippingMethodUnset, o.ShippingMethod())
		require.Len(t, o.History(), 1)
		assert.Equal(t, kernel.RoleBuyer, o.History()[0].UpdatedByRole)
		assert.Len(t, o.NewHistory(), 1)
		assert.False(t, o.IsAssigned())
	})

	t.Run("rounds the amount", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), "ORD-2", kernel.NewUUID(), kernel.NewUUID(),
			decimal.RequireFromString("499.999"), order.PaymentPending, order.Address{}, baseTime)
		require.NoError(t, err)
		assert.Equal(t, "500.00", o.TotalAmount().StringFixed(2))
	})

	t.Run("joins every invalid field", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, " ", kernel.UUID{}, kernel.NewUUID(),
			decimal.Zero, order.PaymentStatus("maybe"), order.Address{}, baseTime)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "orderNumber")
		assert.Contains(t, err.Error(), "totalAmount")
		assert.Contains(t, err.Error(), "paymentStatus")
	})
}

func TestOrder_ValidateZeroValue(t *testing.T) {
	var o *order.Order
	assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	assert.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
}

func TestRestoreOrder(t *testing.T) {
	src := newOrder(t, order.PaymentPending)
	advance(t, src, order.Received, order.Packed)

	restored, err := order.RestoreOrder(order.State{
		ID:                 src.ID(),
		OrderNumber:        src.OrderNumber(),
		ArtisanID:          src.ArtisanID(),
		BuyerID:            src.BuyerID(),
		TotalAmount:        src.TotalAmount(),
		PaymentStatus:      src.PaymentStatus(),
		Address:            src.Address(),
		CreatedAt:          src.CreatedAt(),
		Status:             src.Status(),
		History:            src.History(),
		LastStatusChangeAt: src.LastStatusChangeAt(),
		Version:            4,
	})
	require.NoError(t, err)

	assert.Equal(t, order.Packed, restored.Status())
	assert.Equal(t, int64(4), restored.Version())
	assert.Empty(t, restored.NewHistory(), "restored history is already persisted")
	assert.Empty(t, restored.Events())

	_, err = order.RestoreOrder(order.State{ID: src.ID(), OrderNumber: "x", ArtisanID: src.ArtisanID(),
		BuyerID: src.BuyerID(), TotalAmount: decimal.NewFromInt(1), Status: order.Packed})
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestOrder_VersionTracking(t *testing.T) {
	o := newOrder(t, order.PaymentPending)

	require.NoError(t, o.CheckVersion(0))
	require.NoError(t, o.CheckVersion(1))

	err := o.CheckVersion(3)
	var conflict *errs.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(3), conflict.Expected)
	assert.Equal(t, int64(1), conflict.Actual)

	advance(t, o, order.Received)
	assert.Len(t, o.NewHistory(), 2)

	o.MarkPersisted(2)
	assert.Equal(t, int64(2), o.Version())
	assert.Empty(t, o.NewHistory())

	advance(t, o, order.Packed)
	require.Len(t, o.NewHistory(), 1)
	assert.Equal(t, order.Packed, o.NewHistory()[0].Status)
}

func TestOrder_AuthorizeArtisan(t *testing.T) {
	o := newOrder(t, order.PaymentPending)

	assert.NoError(t, o.AuthorizeArtisan(actorWithID(t, o.ArtisanID(), kernel.RoleArtisan)))
	assert.NoError(t, o.AuthorizeArtisan(newActor(t, kernel.RoleAdmin)))
	assert.ErrorIs(t, o.AuthorizeArtisan(newActor(t, kernel.RoleArtisan)), errs.ErrAuthorization)
	assert.ErrorIs(t, o.AuthorizeArtisan(newActor(t, kernel.RoleShippingAgent)), errs.ErrAuthorization)
}

func TestOrder_HistoryIsACopy(t *testing.T) {
	o := newOrder(t, order.PaymentPending)
	h := o.History()
	h[0].Status = order.Delivered

	assert.Equal(t, order.Pending, o.History()[0].Status)
}
