package agent

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrNameIsRequired        = errs.NewValueIsRequiredError("name")
	ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent or RestoreAgent")

	maxCommissionRate = decimal.NewFromInt(100)
)

// Agent is a user with the shipping_agent role and its agent profile.
type Agent struct {
	id         kernel.UUID
	name       string
	phone      string
	rating     float64
	role       kernel.Role
	userActive bool

	profileActive   bool
	commissionRate  decimal.Decimal
	baseDeliveryFee decimal.Decimal
	serviceAreas    []ServiceArea

	walletBalance        decimal.Decimal
	totalEarnings        decimal.Decimal
	totalDeliveries      int
	successfulDeliveries int

	guard guard.ConstructorGuard
}

// NewAgent onboards an active agent with an empty wallet.
func NewAgent(
	id kernel.UUID,
	name, phone string,
	commissionRate, baseDeliveryFee decimal.Decimal,
	serviceAreas []ServiceArea,
) (*Agent, error) {
	a := &Agent{
		role:          kernel.RoleShippingAgent,
		userActive:    true,
		profileActive: true,
		phone:         strings.TrimSpace(phone),
		serviceAreas:  slices.Clone(serviceAreas),
		walletBalance: decimal.Zero,
		totalEarnings: decimal.Zero,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
		a.setCommission(commissionRate, baseDeliveryFee),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// State is the persisted form of an agent.
type State struct {
	ID                   kernel.UUID
	Name                 string
	Phone                string
	Rating               float64
	Role                 kernel.Role
	UserActive           bool
	ProfileActive        bool
	CommissionRate       decimal.Decimal
	BaseDeliveryFee      decimal.Decimal
	ServiceAreas         []ServiceArea
	WalletBalance        decimal.Decimal
	TotalEarnings        decimal.Decimal
	TotalDeliveries      int
	SuccessfulDeliveries int
}

func RestoreAgent(s State) (*Agent, error) {
	a := &Agent{
		phone:                s.Phone,
		rating:               s.Rating,
		role:                 s.Role,
		userActive:           s.UserActive,
		profileActive:        s.ProfileActive,
		serviceAreas:         slices.Clone(s.ServiceAreas),
		walletBalance:        s.WalletBalance,
		totalEarnings:        s.TotalEarnings,
		totalDeliveries:      s.TotalDeliveries,
		successfulDeliveries: s.SuccessfulDeliveries,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(s.ID),
		a.setName(s.Name),
		s.Role.Validate(),
		a.setCommission(s.CommissionRate, s.BaseDeliveryFee),
	); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

func (a *Agent) ID() kernel.UUID {
	return a.id
}

func (a *Agent) Name() string {
	return a.name
}

func (a *Agent) Phone() string {
	return a.phone
}

func (a *Agent) Rating() float64 {
	return a.rating
}

func (a *Agent) Role() kernel.Role {
	return a.role
}

func (a *Agent) UserActive() bool {
	return a.userActive
}

func (a *Agent) ProfileActive() bool {
	return a.profileActive
}

func (a *Agent) CommissionRate() decimal.Decimal {
	return a.commissionRate
}

func (a *Agent) BaseDeliveryFee() decimal.Decimal {
	return a.baseDeliveryFee
}

func (a *Agent) ServiceAreas() []ServiceArea {
	return slices.Clone(a.serviceAreas)
}

func (a *Agent) WalletBalance() decimal.Decimal {
	return a.walletBalance
}

func (a *Agent) TotalEarnings() decimal.Decimal {
	return a.totalEarnings
}

func (a *Agent) TotalDeliveries() int {
	return a.totalDeliveries
}

func (a *Agent) SuccessfulDeliveries() int {
	return a.successfulDeliveries
}

// IsEligible is the filter every broadcast and assignment applies.
func (a *Agent) IsEligible() bool {
	return a.role == kernel.RoleShippingAgent && a.userActive && a.profileActive
}

// RequireEligible fails when the agent cannot take deliveries.
func (a *Agent) RequireEligible() error {
	if a.role != kernel.RoleShippingAgent {
		return errs.NewValueIsInvalidErrorWithCause("agent", fmt.Errorf("user %s has role %s", a.id, a.role))
	}
	if !a.userActive || !a.profileActive {
		return errs.NewValueIsInvalidErrorWithCause("agent", fmt.Errorf("agent %s is not active", a.id))
	}
	return nil
}

func (a *Agent) Deactivate() {
	a.profileActive = false
}

func (a *Agent) Activate() {
	a.profileActive = true
}

func (a *Agent) PinCodes() []string {
	var pins []string
	for _, area := range a.serviceAreas {
		for _, pin := range area.pinCodes {
			if !slices.Contains(pins, pin) {
				pins = append(pins, pin)
			}
		}
	}
	return pins
}

func (a *Agent) ServesPinCode(pinCode string) bool {
	return slices.ContainsFunc(a.serviceAreas, func(area ServiceArea) bool {
		return area.Covers(pinCode)
	})
}

// ServesAnyPinCode reports whether any of pins falls in the agent's areas.
func (a *Agent) ServesAnyPinCode(pins []string) bool {
	return slices.ContainsFunc(pins, a.ServesPinCode)
}

// ServesDistrict reports whether any area's district matches pattern.
func (a *Agent) ServesDistrict(pattern *regexp.Regexp) bool {
	return slices.ContainsFunc(a.serviceAreas, func(area ServiceArea) bool {
		return area.district != "" && pattern.MatchString(area.district)
	})
}

// Candidate is the view of the agent an order denormalises.
func (a *Agent) Candidate() order.AgentCandidate {
	return order.AgentCandidate{ID: a.id, Name: a.name, Phone: a.phone, Rating: a.rating}
}

// CreditDelivery applies a completed delivery to the in-memory counters.
// Repositories apply the same change with SQL increments.
func (a *Agent) CreditDelivery(commission decimal.Decimal) {
	a.totalDeliveries++
	a.successfulDeliveries++
	a.walletBalance = a.walletBalance.Add(commission)
	a.totalEarnings = a.totalEarnings.Add(commission)
}

// RequestPayout checks the payout rules and debits the wallet.
func (a *Agent) RequestPayout(amount, minimum decimal.Decimal, now time.Time) (*Payout, error) {
	amount = kernel.Round2(amount)
	if !amount.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount.StringFixed(2)))
	}
	if amount.LessThan(minimum) {
		return nil, errs.NewBelowMinimumPayoutError(amount.StringFixed(2), minimum.StringFixed(2))
	}
	if a.walletBalance.LessThan(amount) {
		return nil, errs.NewInsufficientBalanceError(a.walletBalance.StringFixed(2), amount.StringFixed(2))
	}

	payout, err := NewPayout(a.id, amount, now)
	if err != nil {
		return nil, err
	}
	a.walletBalance = a.walletBalance.Sub(amount)
	return payout, nil
}

func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Agent) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	a.name = name
	return nil
}

func (a *Agent) setCommission(rate, fee decimal.Decimal) error {
	var errList []error
	if rate.IsNegative() || rate.GreaterThan(maxCommissionRate) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("commissionRate", rate.String(), 0, 100))
	}
	if err := kernel.ValidateAmount("baseDeliveryFee", fee); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}
	a.commissionRate = rate
	a.baseDeliveryFee = fee
	return nil
}
