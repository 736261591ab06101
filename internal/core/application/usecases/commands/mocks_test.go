package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOpenPickupRequests(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAgentRepository struct{ mock.Mock }

func (m *MockAgentRepository) Add(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) ListEligible(ctx context.Context) ([]*agent.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) CreditDelivery(ctx context.Context, id kernel.UUID, commission decimal.Decimal) error {
	args := m.Called(ctx, id, commission)
	return args.Error(0)
}

func (m *MockAgentRepository) DebitWallet(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockAgentRepository) AddPayout(ctx context.Context, p *agent.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AgentRepository() ports.AgentRepository {
	args := m.Called()
	return args.Get(0).(ports.AgentRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockAgentUoWFactory struct{ mock.Mock }

func (m *MockAgentUoWFactory) Create() commands.AgentUoW {
	args := m.Called()
	return args.Get(0).(commands.AgentUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, events ...order.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockTransitionRecorder struct{ mock.Mock }

func (m *MockTransitionRecorder) IncTransition(from, to, channel string) {
	m.Called(from, to, channel)
}

func fixedClock() time.Time {
	return baseTime.Add(time.Minute)
}

func actorWithID(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	return actorWithID(t, kernel.NewUUID(), role)
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"ORD-2001",
		kernel.NewUUID(),
		kernel.NewUUID(),
		decimal.NewFromInt(1000),
		order.PaymentCompleted,
		order.Address{Name: "Asha", City: "Bengaluru", District: "Bengaluru Urban", PinCode: "560001"},
		baseTime,
	)
	require.NoError(t, err)
	return o
}

// pickupOrder returns an order already moved to pickup_requested.
func pickupOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newOrder(t)
	artisan := actorWithID(t, o.ArtisanID(), kernel.RoleArtisan)
	for _, s := range []order.Status{order.Received, order.Packed, order.PickupRequested} {
		require.NoError(t, o.UpdateStatus(s, artisan, "", baseTime))
	}
	o.PullEvents()
	o.MarkPersisted(o.Version())
	return o
}

func newAgent(t *testing.T, name string, pins ...string) *agent.Agent {
	t.Helper()
	var areas []agent.ServiceArea
	if len(pins) > 0 {
		area, err := agent.NewServiceArea("Bengaluru Urban", "Bengaluru", pins)
		require.NoError(t, err)
		areas = append(areas, area)
	}
	a, err := agent.NewAgent(kernel.NewUUID(), name, "+91-9000000000", decimal.NewFromInt(5), decimal.NewFromInt(50), areas)
	require.NoError(t, err)
	return a
}

// expectOrderTx wires a factory and unit of work that expect one committed
// transaction around the order repository.
func expectOrderTx(ctx context.Context, repo *MockOrderRepository) (*MockOrderUoWFactory, *MockUoW) {
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow
}
