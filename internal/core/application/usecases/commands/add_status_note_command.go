package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAddStatusNoteCommandIsNotConstructed = errors.New(
	"AddStatusNoteCommand must be created via NewAddStatusNoteCommand constructor",
)

type AddStatusNoteCommand struct {
	orderTarget
	note  string
	guard guard.ConstructorGuard
}

func NewAddStatusNoteCommand(orderID kernel.UUID, actor kernel.Actor, note string, opts ...Option) (AddStatusNoteCommand, error) {
	target, err := newOrderTarget(orderID, actor, opts)

	note = strings.TrimSpace(note)
	var noteErr error
	if note == "" {
		noteErr = errs.NewValueIsRequiredError("note")
	}
	if err = errors.Join(err, noteErr); err != nil {
		return AddStatusNoteCommand{}, err
	}

	return AddStatusNoteCommand{
		orderTarget: target,
		note:        note,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AddStatusNoteCommand) Note() string {
	return c.note
}

func (c AddStatusNoteCommand) Validate() error {
	return c.guard.Validate(ErrAddStatusNoteCommandIsNotConstructed)
}
