package agent

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrPayoutIsNotConstructed = errors.New("Payout must be created via NewPayout or RestorePayout")

type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutProcessed PayoutStatus = "processed"
	PayoutRejected  PayoutStatus = "rejected"
)

// Payout is a withdrawal request already debited from the agent's wallet.
type Payout struct {
	id          kernel.UUID
	agentID     kernel.UUID
	amount      decimal.Decimal
	status      PayoutStatus
	requestedAt time.Time
	guard       guard.ConstructorGuard
}

func NewPayout(agentID kernel.UUID, amount decimal.Decimal, now time.Time) (*Payout, error) {
	if err := errors.Join(agentID.Validate(), kernel.ValidateAmount("amount", amount)); err != nil {
		return nil, err
	}
	return &Payout{
		id:          kernel.NewUUID(),
		agentID:     agentID,
		amount:      kernel.Round2(amount),
		status:      PayoutPending,
		requestedAt: now,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func RestorePayout(id, agentID kernel.UUID, amount decimal.Decimal, status PayoutStatus, requestedAt time.Time) (*Payout, error) {
	if err := errors.Join(id.Validate(), agentID.Validate()); err != nil {
		return nil, err
	}
	return &Payout{
		id:          id,
		agentID:     agentID,
		amount:      amount,
		status:      status,
		requestedAt: requestedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (p *Payout) ID() kernel.UUID {
	return p.id
}

func (p *Payout) AgentID() kernel.UUID {
	return p.agentID
}

func (p *Payout) Amount() decimal.Decimal {
	return p.amount
}

func (p *Payout) Status() PayoutStatus {
	return p.status
}

func (p *Payout) RequestedAt() time.Time {
	return p.requestedAt
}

func (p *Payout) Validate() error {
	if p == nil {
		return ErrPayoutIsNotConstructed
	}
	return p.guard.Validate(ErrPayoutIsNotConstructed)
}
