package queries

import (
	"context"
	"regexp"
	"slices"
	"time"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// GetAvailableOpportunitiesQueryHandler applies the opportunity visibility
// rule to open pickup requests. It reads outside a transaction.
type GetAvailableOpportunitiesQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	policy     services.OpportunityPolicy
	commission services.CommissionCalculator
}

func NewGetAvailableOpportunitiesQueryHandler(uowFactory ports.UnitOfWorkFactory) *GetAvailableOpportunitiesQueryHandler {
	return &GetAvailableOpportunitiesQueryHandler{
		uowFactory: uowFactory,
		policy:     services.NewOpportunityPolicy(),
		commission: services.NewCommissionCalculator(),
	}
}

func (h *GetAvailableOpportunitiesQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOpportunitiesQuery,
) ([]Opportunity, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()

	a, err := uow.AgentRepository().Get(ctx, query.Actor().ID())
	if err != nil {
		return nil, err
	}
	if err := a.RequireEligible(); err != nil {
		return nil, err
	}

	open, err := uow.OrderRepository().ListOpenPickupRequests(ctx)
	if err != nil {
		return nil, err
	}

	filter := newOpportunityFilter(query.Filters())
	result := make([]Opportunity, 0, len(open))
	for _, o := range open {
		if !h.policy.IsVisible(o, a) || !filter.matches(o) {
			continue
		}
		result = append(result, h.toOpportunity(o, a))
	}

	slices.SortStableFunc(result, func(x, y Opportunity) int {
		return broadcastTime(y).Compare(broadcastTime(x))
	})
	return result, nil
}

func (h *GetAvailableOpportunitiesQueryHandler) toOpportunity(o *order.Order, a *agent.Agent) Opportunity {
	op := Opportunity{
		OrderID:             o.ID(),
		OrderNumber:         o.OrderNumber(),
		TotalAmount:         o.TotalAmount(),
		PickupAddress:       o.Address(),
		EstimatedCommission: h.commission.Calculate(o, a),
	}
	if b := o.ShippingDetails().Broadcast; b != nil {
		op.BroadcastedAt = b.BroadcastedAt
		op.BroadcastNote = b.Note
		op.Targeted = b.IsTargeted()
		op.AlreadyInterested = b.HasInterest(a.ID())
		op.InterestedCount = len(b.InterestedAgents)
	}
	return op
}

type opportunityFilter struct {
	pinCode  string
	district *regexp.Regexp
}

func newOpportunityFilter(f OpportunityFilters) opportunityFilter {
	filter := opportunityFilter{pinCode: f.PinCode}
	if f.District != "" {
		filter.district = services.DistrictPattern(f.District)
	}
	return filter
}

func (f opportunityFilter) matches(o *order.Order) bool {
	addr := o.Address()
	if f.pinCode != "" && addr.PinCode != f.pinCode {
		return false
	}
	if f.district != nil && !f.district.MatchString(addr.District) {
		return false
	}
	return true
}

// broadcastTime orders never-broadcast requests last.
func broadcastTime(op Opportunity) time.Time {
	if op.BroadcastedAt == nil {
		return time.Time{}
	}
	return *op.BroadcastedAt
}
