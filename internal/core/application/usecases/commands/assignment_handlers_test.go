package commands_test

import (
	"context"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// expectTx wires a UoW spanning both repositories. commit controls whether
// Commit is expected.
func expectTx(ctx context.Context, orders *MockOrderRepository, agents *MockAgentRepository, commit bool) (*MockUoWFactory, *MockUoW) {
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Maybe()
	uow.On("AgentRepository").Return(agents).Maybe()
	if commit {
		uow.On("Commit", ctx).Return(nil).Once()
	}
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow
}

func assignedOrder(t *testing.T, a *agent.Agent) *order.Order {
	t.Helper()
	o := pickupOrder(t)
	require.NoError(t, o.AssignAgent(newActor(t, kernel.RoleAdmin), a.Candidate(), "", baseTime))
	o.PullEvents()
	return o
}

func TestBroadcastPickupRequestCommandHandler_Handle_TargetsPinCode(t *testing.T) {
	ctx := t.Context()
	o := pickupOrder(t)
	near := newAgent(t, "Near", "560001")
	far := newAgent(t, "Far", "110001")

	cmd, err := commands.NewBroadcastPickupRequestCommand(
		o.ID(), newActor(t, kernel.RoleAdmin),
		order.BroadcastTargets{PinCodes: []string{"560001"}}, "fragile",
	)
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	orders.On("Update", ctx, o).Return(nil).Once()
	agents := new(MockAgentRepository)
	agents.On("ListEligible", ctx).Return([]*agent.Agent{near, far}, nil).Once()
	factory, uow := expectTx(ctx, orders, agents, true)

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.MatchedBy(func(events []order.Event) bool {
		return len(events) == 1 &&
			events[0].Type == order.EventPickupBroadcast &&
			len(events[0].AgentIDs) == 1 &&
			events[0].AgentIDs[0].IsEqual(near.ID())
	})).Return(nil).Once()

	handler := commands.NewBroadcastPickupRequestCommandHandler(factory, commands.NewEventDispatcher(notifier, nil, nil)).
		WithClock(fixedClock)
	result, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Agents, 1)
	assert.Equal(t, "Near", result.Agents[0].Name)

	info := o.ShippingDetails().Broadcast
	require.NotNil(t, info)
	require.Len(t, info.TargetedAgentIDs, 1)
	assert.True(t, info.TargetedAgentIDs[0].IsEqual(near.ID()))
	assert.Equal(t, "fragile", info.Note)
	assert.Equal(t, order.PickupRequested, o.Status())
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestBroadcastPickupRequestCommandHandler_Handle_RequiresPickupRequested(t *testing.T) {
	ctx := t.Context()
	o := newOrder(t)
	cmd, err := commands.NewBroadcastPickupRequestCommand(o.ID(), newActor(t, kernel.RoleAdmin), order.BroadcastTargets{}, "")
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	agents := new(MockAgentRepository)
	agents.On("ListEligible", ctx).Return([]*agent.Agent{}, nil).Once()
	factory, uow := expectTx(ctx, orders, agents, false)

	handler := commands.NewBroadcastPickupRequestCommandHandler(factory, nil)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrUnexpectedStatus)
	orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestExpressInterestCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := pickupOrder(t)
	a := newAgent(t, "Kiran", "560001")
	actor := actorWithID(t, a.ID(), kernel.RoleShippingAgent)

	cmd, err := commands.NewExpressInterestCommand(o.ID(), actor)
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	orders.On("Update", ctx, o).Return(nil).Once()
	agents := new(MockAgentRepository)
	agents.On("Get", ctx, a.ID()).Return(a, nil).Once()
	factory, _ := expectTx(ctx, orders, agents, true)

	handler := commands.NewExpressInterestCommandHandler(factory).WithClock(fixedClock)
	require.NoError(t, handler.Handle(ctx, cmd))

	info := o.ShippingDetails().Broadcast
	require.NotNil(t, info)
	require.Len(t, info.InterestedAgents, 1)
	assert.Equal(t, "Kiran", info.InterestedAgents[0].Name)
	assert.False(t, o.IsAssigned())
}

func TestExpressInterestCommandHandler_Handle_InactiveAgent(t *testing.T) {
	ctx := t.Context()
	o := pickupOrder(t)
	a := newAgent(t, "Kiran")
	a.Deactivate()

	cmd, err := commands.NewExpressInterestCommand(o.ID(), actorWithID(t, a.ID(), kernel.RoleShippingAgent))
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	agents := new(MockAgentRepository)
	agents.On("Get", ctx, a.ID()).Return(a, nil).Once()
	factory, _ := expectTx(ctx, orders, agents, false)

	handler := commands.NewExpressInterestCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	orders.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAssignAgentCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := pickupOrder(t)
	a := newAgent(t, "Kiran", "560001")

	cmd, err := commands.NewAssignAgentCommand(o.ID(), newActor(t, kernel.RoleAdmin), a.ID(), "closest agent")
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	orders.On("Update", ctx, o).Return(nil).Once()
	agents := new(MockAgentRepository)
	agents.On("Get", ctx, a.ID()).Return(a, nil).Once()
	factory, _ := expectTx(ctx, orders, agents, true)

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.MatchedBy(func(events []order.Event) bool {
		return len(events) == 1 && events[0].Type == order.EventAgentAssigned
	})).Return(nil).Once()

	handler := commands.NewAssignAgentCommandHandler(factory, commands.NewEventDispatcher(notifier, nil, nil)).
		WithClock(fixedClock)
	require.NoError(t, handler.Handle(ctx, cmd))

	assigned, ok := o.AssignedAgentID()
	require.True(t, ok)
	assert.True(t, assigned.IsEqual(a.ID()))
	assert.Equal(t, order.ShippingMethodPickupAgent, o.ShippingMethod())
	assert.Equal(t, order.PickupRequested, o.Status())
	notifier.AssertExpectations(t)
}

func TestAcceptDeliveryCommandHandler_Handle_FreezesCommission(t *testing.T) {
	ctx := t.Context()
	a := newAgent(t, "Kiran", "560001")
	o := assignedOrder(t, a)

	cmd, err := commands.NewAcceptDeliveryCommand(o.ID(), actorWithID(t, a.ID(), kernel.RoleShippingAgent))
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	orders.On("Update", ctx, o).Return(nil).Once()
	agents := new(MockAgentRepository)
	agents.On("Get", ctx, a.ID()).Return(a, nil).Once()
	factory, _ := expectTx(ctx, orders, agents, true)

	handler := commands.NewAcceptDeliveryCommandHandler(factory).WithClock(fixedClock)
	commission, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	// 50 + 1000 * 5 / 100
	assert.True(t, decimal.NewFromInt(100).Equal(commission), commission.String())
	assignment := o.ShippingDetails().Assignment
	require.NotNil(t, assignment)
	require.NotNil(t, assignment.Commission)
	assert.True(t, commission.Equal(*assignment.Commission))
	assert.Equal(t, order.PickupRequested, o.Status())
}

func TestAcceptDeliveryCommandHandler_Handle_OtherAgentIsRejected(t *testing.T) {
	ctx := t.Context()
	assigned := newAgent(t, "A", "560001")
	other := newAgent(t, "B", "560001")
	o := assignedOrder(t, assigned)

	cmd, err := commands.NewAcceptDeliveryCommand(o.ID(), actorWithID(t, other.ID(), kernel.RoleShippingAgent))
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	agents := new(MockAgentRepository)
	factory, _ := expectTx(ctx, orders, agents, false)

	handler := commands.NewAcceptDeliveryCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrNotAssignedAgent)
	agents.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	assert.False(t, o.ShippingDetails().Assignment.IsAccepted())
}

func TestCompleteDeliveryCommandHandler_Handle_CreditsFrozenCommission(t *testing.T) {
	ctx := t.Context()
	a := newAgent(t, "Kiran", "560001")
	actor := actorWithID(t, a.ID(), kernel.RoleShippingAgent)
	o := assignedOrder(t, a)
	require.NoError(t, o.AcceptDelivery(actor, decimal.RequireFromString("100.004"), baseTime))
	require.NoError(t, o.ConfirmPickup(actor, order.PickupProof{}, baseTime))
	o.PullEvents()

	cmd, err := commands.NewCompleteDeliveryCommand(o.ID(), actor, order.DeliveryProof{OTP: "4321"})
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	orders.On("Update", ctx, o).Return(nil).Once()
	agents := new(MockAgentRepository)
	agents.On("CreditDelivery", ctx, a.ID(), mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()
	factory, uow := expectTx(ctx, orders, agents, true)

	recorder := new(MockTransitionRecorder)
	recorder.On("IncTransition", "shipped", "delivered", "agent").Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory, commands.NewEventDispatcher(nil, recorder, nil)).
		WithClock(fixedClock)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.Delivered, o.Status())
	agents.AssertExpectations(t)
	uow.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestCompleteDeliveryCommandHandler_Handle_CreditFailureRollsBack(t *testing.T) {
	ctx := t.Context()
	a := newAgent(t, "Kiran", "560001")
	actor := actorWithID(t, a.ID(), kernel.RoleShippingAgent)
	o := assignedOrder(t, a)
	require.NoError(t, o.AcceptDelivery(actor, decimal.NewFromInt(100), baseTime))
	require.NoError(t, o.ConfirmPickup(actor, order.PickupProof{}, baseTime))

	cmd, err := commands.NewCompleteDeliveryCommand(o.ID(), actor, order.DeliveryProof{})
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	orders.On("Update", ctx, o).Return(nil).Once()
	agents := new(MockAgentRepository)
	agents.On("CreditDelivery", ctx, a.ID(), mock.Anything).
		Return(errs.NewObjectNotFoundError("agent", a.ID().String())).Once()
	factory, uow := expectTx(ctx, orders, agents, false)

	handler := commands.NewCompleteDeliveryCommandHandler(factory, nil)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertExpectations(t)
}

func TestCompleteDeliveryCommandHandler_Handle_Rejects(t *testing.T) {
	a := newAgent(t, "Kiran", "560001")
	actor := actorWithID(t, a.ID(), kernel.RoleShippingAgent)
	admin := newActor(t, kernel.RoleAdmin)

	testCases := []struct {
		name   string
		order  func(t *testing.T) *order.Order
		target error
	}{
		{
			name: "unaccepted assignment",
			order: func(t *testing.T) *order.Order {
				o := assignedOrder(t, a)
				require.NoError(t, o.OverrideStatus(admin, order.Shipped, "handed over offline", baseTime))
				return o
			},
			target: errs.ErrNotAccepted,
		},
		{
			name: "self shipped order",
			order: func(t *testing.T) *order.Order {
				return selfShippedWithAcceptedAgent(t, a)
			},
			target: errs.ErrShippingMethod,
		},
		{
			name: "self shipped order without assignment",
			order: func(t *testing.T) *order.Order {
				o := pickupOrder(t)
				require.NoError(t, o.ConfirmSelfShipping(admin, order.SelfShipment{Carrier: "bluedart", TrackingNumber: "12345678"}, baseTime))
				return o
			},
			target: errs.ErrNotAssignedAgent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			o := tc.order(t)
			o.PullEvents()
			cmd, err := commands.NewCompleteDeliveryCommand(o.ID(), actor, order.DeliveryProof{OTP: "4321"})
			require.NoError(t, err)

			orders := new(MockOrderRepository)
			orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
			agents := new(MockAgentRepository)
			factory, uow := expectTx(ctx, orders, agents, false)

			handler := commands.NewCompleteDeliveryCommandHandler(factory, nil).WithClock(fixedClock)
			err = handler.Handle(ctx, cmd)

			require.ErrorIs(t, err, tc.target)
			assert.Equal(t, order.Shipped, o.Status())
			orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			agents.AssertNotCalled(t, "CreditDelivery", mock.Anything, mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", ctx)
			uow.AssertExpectations(t)
		})
	}
}

// selfShippedWithAcceptedAgent loads a shipped order whose stored state says
// self shipping while still carrying an accepted agent assignment.
func selfShippedWithAcceptedAgent(t *testing.T, a *agent.Agent) *order.Order {
	t.Helper()
	src := pickupOrder(t)
	acceptedAt := baseTime
	commission := decimal.NewFromInt(80)
	o, err := order.RestoreOrder(order.State{
		ID:             src.ID(),
		OrderNumber:    src.OrderNumber(),
		ArtisanID:      src.ArtisanID(),
		BuyerID:        src.BuyerID(),
		TotalAmount:    src.TotalAmount(),
		PaymentStatus:  src.PaymentStatus(),
		Address:        src.Address(),
		CreatedAt:      src.CreatedAt(),
		Status:         order.Shipped,
		History:        src.History(),
		ShippingMethod: order.ShippingMethodSelfShip,
		Shipping: order.ShippingDetails{
			Carrier:        "bluedart",
			TrackingNumber: "12345678",
			Assignment: &order.Assignment{
				AgentID:    a.ID(),
				AgentName:  a.Name(),
				AcceptedAt: &acceptedAt,
				Commission: &commission,
			},
		},
		LastStatusChangeAt: baseTime,
		Version:            src.Version(),
	})
	require.NoError(t, err)
	return o
}

func TestConfirmPickupCommandHandler_Handle_RequiresAcceptance(t *testing.T) {
	a := newAgent(t, "Kiran", "560001")
	o := assignedOrder(t, a)

	cmd, err := commands.NewConfirmPickupCommand(o.ID(), actorWithID(t, a.ID(), kernel.RoleShippingAgent), order.PickupProof{})
	require.NoError(t, err)

	factory, repo, _ := failingTx(t, o)
	handler := commands.NewConfirmPickupCommandHandler(factory, nil)

	err = handler.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrNotAccepted)
	assert.Equal(t, order.PickupRequested, o.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRequestPayoutCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	a := newAgent(t, "Kiran")
	a.CreditDelivery(decimal.NewFromInt(750))
	amount := decimal.NewFromInt(500)

	cmd, err := commands.NewRequestPayoutCommand(actorWithID(t, a.ID(), kernel.RoleShippingAgent), amount)
	require.NoError(t, err)

	agents := new(MockAgentRepository)
	agents.On("Get", ctx, a.ID()).Return(a, nil).Once()
	agents.On("DebitWallet", ctx, a.ID(), mock.MatchedBy(amount.Equal)).Return(nil).Once()
	agents.On("AddPayout", ctx, mock.AnythingOfType("*agent.Payout")).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AgentRepository").Return(agents).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRequestPayoutCommandHandler(factory, decimal.NewFromInt(100)).WithClock(fixedClock)
	payoutID, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	require.NoError(t, payoutID.Validate())
	agents.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRequestPayoutCommandHandler_Handle_Rules(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		amount  int64
		want    error
	}{
		{name: "below minimum", balance: 1000, amount: 50, want: errs.ErrBelowMinimumPayout},
		{name: "insufficient balance", balance: 200, amount: 500, want: errs.ErrInsufficientBalance},
		{name: "zero amount", balance: 200, amount: 0, want: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			a := newAgent(t, "Kiran")
			a.CreditDelivery(decimal.NewFromInt(tt.balance))

			cmd, err := commands.NewRequestPayoutCommand(actorWithID(t, a.ID(), kernel.RoleShippingAgent), decimal.NewFromInt(tt.amount))
			require.NoError(t, err)

			agents := new(MockAgentRepository)
			agents.On("Get", ctx, a.ID()).Return(a, nil).Once()
			uow := new(MockUoW)
			uow.On("Begin", ctx).Return(nil).Once()
			uow.On("AgentRepository").Return(agents).Once()
			uow.On("Rollback", ctx).Return(nil).Once()
			factory := new(MockAgentUoWFactory)
			factory.On("Create").Return(uow).Once()

			handler := commands.NewRequestPayoutCommandHandler(factory, decimal.NewFromInt(100))
			_, err = handler.Handle(ctx, cmd)

			require.ErrorIs(t, err, tt.want)
			agents.AssertNotCalled(t, "DebitWallet", mock.Anything, mock.Anything, mock.Anything)
			assert.True(t, decimal.NewFromInt(tt.balance).Equal(a.WalletBalance()))
		})
	}
}
