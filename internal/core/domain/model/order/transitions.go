package order

import (
	"fmt"
	"slices"

	"marketplace/internal/pkg/errs"
)

// Channel is the path a status change arrives through.
type Channel string

const (
	ChannelEngine        Channel = "engine"
	ChannelSelfShip      Channel = "self_ship"
	ChannelAgent         Channel = "agent"
	ChannelAdminOverride Channel = "admin_override"
)

var transitions = map[Status][]Status{
	Pending:         {Received, Cancelled},
	Received:        {Packed, Cancelled},
	Packed:          {PickupRequested, Shipped, Cancelled},
	PickupRequested: {Shipped, Cancelled},
	Processing:      {Shipped, Cancelled},
	Shipped:         {Delivered, Cancelled},
	Delivered:       {},
	Cancelled:       {},
}

// channelEdges narrows the table for the specialised channels: target -> sources.
var channelEdges = map[Channel]map[Status][]Status{
	ChannelSelfShip: {
		Shipped: {Packed, PickupRequested},
	},
	ChannelAgent: {
		Shipped:   {Packed, PickupRequested},
		Delivered: {Shipped},
	},
}

// statusUpdateTargets are the only statuses the generic update may set.
// Shipping, delivery and cancellation carry data of their own and go through
// their dedicated operations.
var statusUpdateTargets = []Status{Received, Packed, PickupRequested}

// StatusUpdateTargets returns the statuses the generic update can reach from s.
func StatusUpdateTargets(s Status) []Status {
	var out []Status
	for _, to := range transitions[s] {
		if slices.Contains(statusUpdateTargets, to) {
			out = append(out, to)
		}
	}
	return out
}

// AllowedTransitions returns the statuses reachable from s through the engine.
func AllowedTransitions(s Status) []Status {
	return slices.Clone(transitions[s])
}

func IsValidTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// ValidateStatusTransition fails with an InvalidTransitionError that lists the
// statuses reachable from from.
func ValidateStatusTransition(from, to Status) error {
	if IsValidTransition(from, to) {
		return nil
	}
	return errs.NewInvalidTransitionError(from.String(), to.String(), statusStrings(transitions[from]))
}

// CanTransition is the single authority for status changes. Admin override
// bypasses the table; every other channel must follow it, and the self-ship
// and agent channels are further restricted to the edges they own.
func CanTransition(from, to Status, ch Channel) error {
	if err := to.Validate(); err != nil {
		return err
	}

	switch ch {
	case ChannelAdminOverride:
		return nil
	case ChannelEngine:
		return ValidateStatusTransition(from, to)
	case ChannelSelfShip, ChannelAgent:
		if err := ValidateStatusTransition(from, to); err != nil {
			return err
		}
		if slices.Contains(channelEdges[ch][to], from) {
			return nil
		}
		return errs.NewInvalidTransitionError(from.String(), to.String(), statusStrings(channelTargets(ch, from)))
	default:
		return errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("%q is not a known channel", string(ch)))
	}
}

func channelTargets(ch Channel, from Status) []Status {
	var out []Status
	for _, to := range transitions[from] {
		if slices.Contains(channelEdges[ch][to], from) {
			out = append(out, to)
		}
	}
	return out
}

func statusStrings(statuses []Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}
