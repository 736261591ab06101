package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// Option tunes the order addressing of a command.
type Option func(*orderTarget)

// WithExpectedVersion makes the command fail with errs.ConflictError when the
// stored order has moved past version. Zero disables the check.
func WithExpectedVersion(version int64) Option {
	return func(t *orderTarget) {
		t.expectedVersion = version
	}
}

// orderTarget is the order, caller and expected version shared by order commands.
type orderTarget struct {
	orderID         kernel.UUID
	actor           kernel.Actor
	expectedVersion int64
}

func newOrderTarget(orderID kernel.UUID, actor kernel.Actor, opts []Option) (orderTarget, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return orderTarget{}, err
	}
	t := orderTarget{orderID: orderID, actor: actor}
	for _, opt := range opts {
		opt(&t)
	}
	if t.expectedVersion < 0 {
		return orderTarget{}, errs.NewValueIsOutOfRangeError("expectedVersion", t.expectedVersion, 0, "unbounded")
	}
	return t, nil
}

func (t orderTarget) OrderID() kernel.UUID {
	return t.orderID
}

func (t orderTarget) Actor() kernel.Actor {
	return t.actor
}

func (t orderTarget) ExpectedVersion() int64 {
	return t.expectedVersion
}

func requireRole(actor kernel.Actor, role kernel.Role, reason string) error {
	if actor.Role() != role {
		return errs.NewAuthorizationError(actor.ID().String(), string(actor.Role()), reason)
	}
	return nil
}

// mutateOrder loads the order in a transaction, checks the expected version,
// applies fn, saves, commits and dispatches the recorded events.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	events *EventDispatcher,
	target orderTarget,
	fn func(o *order.Order) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, target.OrderID())
	if err != nil {
		return err
	}

	if err = o.CheckVersion(target.ExpectedVersion()); err != nil {
		return err
	}

	if err = fn(o); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	events.Dispatch(ctx, o.PullEvents())
	return nil
}
