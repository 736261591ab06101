package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderStatusCommand(t *testing.T) {
	actor := newActor(t, kernel.RoleArtisan)
	id := kernel.NewUUID()

	t.Run("valid", func(t *testing.T) {
		cmd, err := commands.NewUpdateOrderStatusCommand(id, actor, order.Packed, "  wrapped  ", commands.WithExpectedVersion(4))
		require.NoError(t, err)
		assert.True(t, cmd.OrderID().IsEqual(id))
		assert.Equal(t, order.Packed, cmd.Status())
		assert.Equal(t, "wrapped", cmd.Note())
		assert.Equal(t, int64(4), cmd.ExpectedVersion())
		assert.NoError(t, cmd.Validate())
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := commands.NewUpdateOrderStatusCommand(id, actor, order.Status("lost"), "")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("empty order id", func(t *testing.T) {
		_, err := commands.NewUpdateOrderStatusCommand(kernel.UUID{}, actor, order.Packed, "")
		require.Error(t, err)
	})

	t.Run("negative expected version", func(t *testing.T) {
		_, err := commands.NewUpdateOrderStatusCommand(id, actor, order.Packed, "", commands.WithExpectedVersion(-1))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		require.ErrorIs(t, commands.UpdateOrderStatusCommand{}.Validate(), commands.ErrUpdateOrderStatusCommandIsNotConstructed)
	})
}

func TestNewRequestPickupAgentCommand_DefaultNote(t *testing.T) {
	cmd, err := commands.NewRequestPickupAgentCommand(kernel.NewUUID(), newActor(t, kernel.RoleArtisan), "")
	require.NoError(t, err)
	assert.Equal(t, order.PickupRequested, cmd.Status())
	assert.Equal(t, "Pickup agent requested", cmd.Note())
}

func TestNewConfirmSelfShippingCommand_RequiresCarrierAndTracking(t *testing.T) {
	_, err := commands.NewConfirmSelfShippingCommand(kernel.NewUUID(), newActor(t, kernel.RoleArtisan), " ", "", nil, "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "carrier")
	assert.Contains(t, err.Error(), "trackingNumber")
}

func TestNewCancelOrderCommand_RequiresReason(t *testing.T) {
	_, err := commands.NewCancelOrderCommand(kernel.NewUUID(), newActor(t, kernel.RoleArtisan), "   ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewAddStatusNoteCommand_RequiresNote(t *testing.T) {
	_, err := commands.NewAddStatusNoteCommand(kernel.NewUUID(), newActor(t, kernel.RoleArtisan), "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewOverrideOrderStatusCommand(t *testing.T) {
	id := kernel.NewUUID()

	t.Run("non admin", func(t *testing.T) {
		_, err := commands.NewOverrideOrderStatusCommand(id, newActor(t, kernel.RoleArtisan), order.Delivered, "fix")
		require.ErrorIs(t, err, errs.ErrAuthorization)
	})

	t.Run("missing status and reason", func(t *testing.T) {
		_, err := commands.NewOverrideOrderStatusCommand(id, newActor(t, kernel.RoleAdmin), "", "")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "status")
		assert.Contains(t, err.Error(), "reason")
	})
}

func TestRoleGatedCommands(t *testing.T) {
	id := kernel.NewUUID()
	artisan := newActor(t, kernel.RoleArtisan)

	_, err := commands.NewBroadcastPickupRequestCommand(id, artisan, order.BroadcastTargets{}, "")
	assert.ErrorIs(t, err, errs.ErrAuthorization)

	_, err = commands.NewAssignAgentCommand(id, artisan, kernel.NewUUID(), "")
	assert.ErrorIs(t, err, errs.ErrAuthorization)

	_, err = commands.NewExpressInterestCommand(id, artisan)
	assert.ErrorIs(t, err, errs.ErrAuthorization)

	_, err = commands.NewAcceptDeliveryCommand(id, artisan)
	assert.ErrorIs(t, err, errs.ErrAuthorization)

	_, err = commands.NewConfirmPickupCommand(id, artisan, order.PickupProof{})
	assert.ErrorIs(t, err, errs.ErrAuthorization)

	_, err = commands.NewCompleteDeliveryCommand(id, artisan, order.DeliveryProof{})
	assert.ErrorIs(t, err, errs.ErrAuthorization)

	_, err = commands.NewRequestPayoutCommand(artisan, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, errs.ErrAuthorization)
}

func TestNewBroadcastPickupRequestCommand_NormalisesTargets(t *testing.T) {
	cmd, err := commands.NewBroadcastPickupRequestCommand(
		kernel.NewUUID(), newActor(t, kernel.RoleAdmin),
		order.BroadcastTargets{PinCodes: []string{" 560001 ", ""}, District: "  Mysuru "}, " note ",
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"560001"}, cmd.Targets().PinCodes)
	assert.Equal(t, "Mysuru", cmd.Targets().District)
	assert.Equal(t, "note", cmd.Note())
}

func TestNewRequestPayoutCommand_RoundsAmount(t *testing.T) {
	cmd, err := commands.NewRequestPayoutCommand(newActor(t, kernel.RoleShippingAgent), decimal.RequireFromString("150.456"))
	require.NoError(t, err)
	assert.Equal(t, "150.46", cmd.Amount().StringFixed(2))

	_, err = commands.NewRequestPayoutCommand(newActor(t, kernel.RoleShippingAgent), decimal.NewFromInt(-5))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
