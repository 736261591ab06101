package queries

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetAvailableOpportunitiesQueryIsNotConstructed = errors.New(
	"GetAvailableOpportunitiesQuery must be created via NewGetAvailableOpportunitiesQuery constructor",
)

// OpportunityFilters narrows the listing. Empty fields do not filter.
type OpportunityFilters struct {
	PinCode  string
	District string
}

// GetAvailableOpportunitiesQuery lists the pickup requests an agent may
// express interest in.
type GetAvailableOpportunitiesQuery struct {
	actor   kernel.Actor
	filters OpportunityFilters

	guard guard.ConstructorGuard
}

func NewGetAvailableOpportunitiesQuery(actor kernel.Actor, filters OpportunityFilters) (GetAvailableOpportunitiesQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetAvailableOpportunitiesQuery{}, err
	}
	if actor.Role() != kernel.RoleShippingAgent {
		return GetAvailableOpportunitiesQuery{}, errs.NewAuthorizationError(
			actor.ID().String(), string(actor.Role()), "only shipping agents see pickup opportunities",
		)
	}

	return GetAvailableOpportunitiesQuery{
		actor: actor,
		filters: OpportunityFilters{
			PinCode:  strings.TrimSpace(filters.PinCode),
			District: strings.TrimSpace(filters.District),
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q GetAvailableOpportunitiesQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetAvailableOpportunitiesQuery) Filters() OpportunityFilters {
	return q.filters
}

func (q GetAvailableOpportunitiesQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOpportunitiesQueryIsNotConstructed)
}

// Opportunity is one visible pickup request with the commission the agent
// would earn at current rates. The amount is frozen only on acceptance.
type Opportunity struct {
	OrderID             kernel.UUID
	OrderNumber         string
	TotalAmount         decimal.Decimal
	PickupAddress       order.Address
	BroadcastedAt       *time.Time
	BroadcastNote       string
	Targeted            bool
	AlreadyInterested   bool
	InterestedCount     int
	EstimatedCommission decimal.Decimal
}
