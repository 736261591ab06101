package services

import (
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// CommissionCalculator prices a delivery as
// round2(baseDeliveryFee + orderValue * commissionRate / 100).
// Opportunity listings use it for estimates; acceptance freezes its result.
type CommissionCalculator struct{}

func NewCommissionCalculator() CommissionCalculator {
	return CommissionCalculator{}
}

func (CommissionCalculator) Calculate(o *order.Order, a *agent.Agent) decimal.Decimal {
	return Commission(o.TotalAmount(), a.CommissionRate(), a.BaseDeliveryFee())
}

func Commission(orderValue, commissionRate, baseDeliveryFee decimal.Decimal) decimal.Decimal {
	return kernel.Round2(baseDeliveryFee.Add(kernel.Percent(orderValue, commissionRate)))
}
