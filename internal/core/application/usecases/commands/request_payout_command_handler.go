package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// RequestPayoutCommandHandler checks the payout against the loaded wallet,
// then debits it with a guarded decrement so a concurrent payout cannot
// overdraw the balance.
type RequestPayoutCommandHandler struct {
	uowFactory AgentUoWFactory
	minimum    decimal.Decimal
	clock
}

func NewRequestPayoutCommandHandler(uowFactory AgentUoWFactory, minimum decimal.Decimal) RequestPayoutCommandHandler {
	return RequestPayoutCommandHandler{uowFactory: uowFactory, minimum: minimum, clock: systemClock()}
}

func (h RequestPayoutCommandHandler) WithClock(now func() time.Time) RequestPayoutCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h RequestPayoutCommandHandler) Handle(ctx context.Context, cmd RequestPayoutCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.AgentRepository()

	a, err := repo.Get(ctx, cmd.Actor().ID())
	if err != nil {
		return kernel.UUID{}, err
	}

	payout, err := a.RequestPayout(cmd.Amount(), h.minimum, h.Now())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = repo.DebitWallet(ctx, a.ID(), payout.Amount()); err != nil {
		return kernel.UUID{}, err
	}

	if err = repo.AddPayout(ctx, payout); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return payout.ID(), nil
}
