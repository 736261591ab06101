package commands_test

import (
	"context"
	"sync"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// memoryStore is an in-process stand-in for the database used by the
// end-to-end flow tests. Transactions are no-ops.
type memoryStore struct {
	mu      sync.Mutex
	orders  map[string]*order.Order
	agents  map[string]*agent.Agent
	payouts []*agent.Payout
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders: make(map[string]*order.Order),
		agents: make(map[string]*agent.Agent),
	}
}

func (s *memoryStore) Create() commands.UoW {
	return memoryUoW{store: s}
}

type memoryUoW struct {
	store *memoryStore
}

func (memoryUoW) Begin(context.Context) error    { return nil }
func (memoryUoW) Commit(context.Context) error   { return nil }
func (memoryUoW) Rollback(context.Context) error { return nil }

func (u memoryUoW) OrderRepository() ports.OrderRepository {
	return memoryOrders{store: u.store}
}

func (u memoryUoW) AgentRepository() ports.AgentRepository {
	return memoryAgents{store: u.store}
}

// orderFactory adapts the store to handlers that only need orders.
type orderFactory struct{ store *memoryStore }

func (f orderFactory) Create() commands.OrderUoW { return memoryUoW{store: f.store} }

type agentFactory struct{ store *memoryStore }

func (f agentFactory) Create() commands.AgentUoW { return memoryUoW{store: f.store} }

type memoryOrders struct{ store *memoryStore }

func (r memoryOrders) Add(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[o.ID().String()] = o
	o.MarkPersisted(o.Version())
	return nil
}

func (r memoryOrders) Update(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[o.ID().String()] = o
	o.MarkPersisted(o.Version() + 1)
	return nil
}

func (r memoryOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (r memoryOrders) ListOpenPickupRequests(context.Context) ([]*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*order.Order
	for _, o := range r.store.orders {
		if o.Status() == order.PickupRequested && !o.IsAssigned() {
			out = append(out, o)
		}
	}
	return out, nil
}

type memoryAgents struct{ store *memoryStore }

func (r memoryAgents) Add(_ context.Context, a *agent.Agent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.agents[a.ID().String()] = a
	return nil
}

func (r memoryAgents) Update(ctx context.Context, a *agent.Agent) error {
	return r.Add(ctx, a)
}

func (r memoryAgents) Get(_ context.Context, id kernel.UUID) (*agent.Agent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.agents[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("agent", id.String())
	}
	return a, nil
}

func (r memoryAgents) ListEligible(context.Context) ([]*agent.Agent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*agent.Agent
	for _, a := range r.store.agents {
		if a.IsEligible() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r memoryAgents) CreditDelivery(ctx context.Context, id kernel.UUID, commission decimal.Decimal) error {
	a, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	a.CreditDelivery(commission)
	return nil
}

func (r memoryAgents) DebitWallet(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error {
	// RequestPayout already debited the loaded aggregate, which is the stored one.
	_, err := r.Get(ctx, id)
	return err
}

func (r memoryAgents) AddPayout(_ context.Context, p *agent.Payout) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.payouts = append(r.store.payouts, p)
	return nil
}
