package ports

import (
	"context"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

type AgentRepository interface {
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update writes profile fields. Wallet counters are only changed through
	// CreditDelivery and DebitWallet.
	Update(ctx context.Context, aggregate *agent.Agent) error

	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// ListEligible returns active shipping agents with active profiles.
	ListEligible(ctx context.Context) ([]*agent.Agent, error)

	// CreditDelivery increments delivery counters and adds commission to the
	// wallet and lifetime earnings in a single statement.
	CreditDelivery(ctx context.Context, id kernel.UUID, commission decimal.Decimal) error

	// DebitWallet subtracts amount only while the balance covers it and
	// returns errs.InsufficientBalanceError otherwise.
	DebitWallet(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error

	AddPayout(ctx context.Context, payout *agent.Payout) error
}
