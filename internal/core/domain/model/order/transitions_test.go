package order_test

import (
	"slices"
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_ParseAndDisplay(t *testing.T) {
	s, err := order.ParseStatus("pickup_requested")
	require.NoError(t, err)
	assert.Equal(t, order.PickupRequested, s)
	assert.Equal(t, "Pickup Requested", s.DisplayName())

	_, err = order.ParseStatus("in_transit")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.Shipped.IsTerminal())
}

func TestTransitionTable(t *testing.T) {
	expected := map[order.Status][]order.Status{
		order.Pending:         {order.Received, order.Cancelled},
		order.Received:        {order.Packed, order.Cancelled},
		order.Packed:          {order.PickupRequested, order.Shipped, order.Cancelled},
		order.PickupRequested: {order.Shipped, order.Cancelled},
		order.Processing:      {order.Shipped, order.Cancelled},
		order.Shipped:         {order.Delivered, order.Cancelled},
		order.Delivered:       {},
		order.Cancelled:       {},
	}

	for from, allowed := range expected {
		assert.ElementsMatch(t, allowed, order.AllowedTransitions(from), from)
	}
}

func TestIsValidTransition_Closure(t *testing.T) {
	for _, from := range order.AllStatuses() {
		allowed := order.AllowedTransitions(from)
		for _, to := range order.AllStatuses() {
			want := slices.Contains(allowed, to)
			assert.Equal(t, want, order.IsValidTransition(from, to), "%s -> %s", from, to)

			err := order.ValidateStatusTransition(from, to)
			if want {
				assert.NoError(t, err)
				continue
			}
			var transitionErr *errs.InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr, "%s -> %s", from, to)
			assert.Equal(t, from.String(), transitionErr.From)
			assert.Equal(t, to.String(), transitionErr.To)
			assert.Len(t, transitionErr.Allowed, len(allowed))
		}
	}
}

func TestCanTransition_Channels(t *testing.T) {
	testCases := []struct {
		name    string
		from    order.Status
		to      order.Status
		channel order.Channel
		ok      bool
	}{
		{"engine follows table", order.Packed, order.PickupRequested, order.ChannelEngine, true},
		{"engine rejects skip", order.Pending, order.Shipped, order.ChannelEngine, false},
		{"self ship from packed", order.Packed, order.Shipped, order.ChannelSelfShip, true},
		{"self ship from pickup requested", order.PickupRequested, order.Shipped, order.ChannelSelfShip, true},
		{"self ship rejects legacy processing", order.Processing, order.Shipped, order.ChannelSelfShip, false},
		{"self ship cannot cancel", order.Packed, order.Cancelled, order.ChannelSelfShip, false},
		{"agent pickup", order.PickupRequested, order.Shipped, order.ChannelAgent, true},
		{"agent pickup twice", order.Shipped, order.Shipped, order.ChannelAgent, false},
		{"agent delivery", order.Shipped, order.Delivered, order.ChannelAgent, true},
		{"agent delivery before pickup", order.PickupRequested, order.Delivered, order.ChannelAgent, false},
		{"agent cannot cancel", order.Shipped, order.Cancelled, order.ChannelAgent, false},
		{"override leaves terminal", order.Delivered, order.Shipped, order.ChannelAdminOverride, true},
		{"override same status", order.Packed, order.Packed, order.ChannelAdminOverride, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := order.CanTransition(tc.from, tc.to, tc.channel)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrInvalidTransition)
			}
		})
	}

	t.Run("override still validates target", func(t *testing.T) {
		err := order.CanTransition(order.Packed, order.Status("in_transit"), order.ChannelAdminOverride)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unknown channel", func(t *testing.T) {
		err := order.CanTransition(order.Packed, order.Shipped, order.Channel("carrier_pigeon"))
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestCanTransition_TerminalStatesHaveNoExitExceptOverride(t *testing.T) {
	for _, from := range []order.Status{order.Delivered, order.Cancelled} {
		for _, to := range order.AllStatuses() {
			for _, ch := range []order.Channel{order.ChannelEngine, order.ChannelSelfShip, order.ChannelAgent} {
				assert.Error(t, order.CanTransition(from, to, ch), "%s -> %s via %s", from, to, ch)
			}
			assert.NoError(t, order.CanTransition(from, to, order.ChannelAdminOverride))
		}
	}
}
