package services

import (
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/order"
)

// OpportunityPolicy decides whether an agent may see a pickup request: the
// order must be pickup_requested and unassigned, and the agent must be
// explicitly targeted, serve the shipping pin code, or the request must be
// untargeted.
type OpportunityPolicy struct{}

func NewOpportunityPolicy() OpportunityPolicy {
	return OpportunityPolicy{}
}

func (OpportunityPolicy) IsVisible(o *order.Order, a *agent.Agent) bool {
	if o.Status() != order.PickupRequested || o.IsAssigned() {
		return false
	}
	broadcast := o.ShippingDetails().Broadcast
	switch {
	case broadcast.Targets(a.ID()):
		return true
	case a.ServesPinCode(o.Address().PinCode):
		return true
	default:
		return !broadcast.IsTargeted()
	}
}
