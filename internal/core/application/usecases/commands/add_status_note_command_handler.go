package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// AddStatusNoteCommandHandler appends commentary without a status change.
// The artisan, an admin, or the assigned agent may comment.
type AddStatusNoteCommandHandler struct {
	uowFactory OrderUoWFactory
	events     *EventDispatcher
	clock
}

func NewAddStatusNoteCommandHandler(uowFactory OrderUoWFactory, events *EventDispatcher) AddStatusNoteCommandHandler {
	return AddStatusNoteCommandHandler{uowFactory: uowFactory, events: events, clock: systemClock()}
}

func (h AddStatusNoteCommandHandler) WithClock(now func() time.Time) AddStatusNoteCommandHandler {
	h.clock = clock{now: now}
	return h
}

func (h AddStatusNoteCommandHandler) Handle(ctx context.Context, cmd AddStatusNoteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, h.events, cmd.orderTarget, func(o *order.Order) error {
		if cmd.Actor().Role() == kernel.RoleShippingAgent {
			if err := o.AuthorizeAssignedAgent(cmd.Actor().ID()); err != nil {
				return err
			}
		} else if err := o.AuthorizeArtisan(cmd.Actor()); err != nil {
			return err
		}
		return o.AddNote(cmd.Actor(), cmd.Note(), h.Now())
	})
}
