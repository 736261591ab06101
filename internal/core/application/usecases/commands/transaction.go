package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// inTransaction runs fn against a unit of work that spans both order and
// agent repositories. Events returned by fn are dispatched after commit.
func inTransaction(
	ctx context.Context,
	uowFactory UoWFactory,
	events *EventDispatcher,
	fn func(uow UoW) ([]order.Event, error),
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pending, err := fn(uow)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if events != nil {
		events.Dispatch(ctx, pending)
	}
	return nil
}

// loadOrder reads the order and checks the expected version of target.
func loadOrder(ctx context.Context, uow UoW, target orderTarget) (*order.Order, error) {
	o, err := uow.OrderRepository().Get(ctx, target.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.CheckVersion(target.ExpectedVersion()); err != nil {
		return nil, err
	}
	return o, nil
}
