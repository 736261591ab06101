package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns value * rate / 100, unrounded.
func Percent(value, rate decimal.Decimal) decimal.Decimal {
	return value.Mul(rate).Div(hundred)
}

// ValidateAmount rejects negative monetary values.
func ValidateAmount(paramName string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(paramName, fmt.Errorf("%s is negative", amount.StringFixed(2)))
	}
	return nil
}

// ParseAmount parses a decimal string and rounds it to two places.
func ParseAmount(paramName, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.NewValueIsInvalidErrorWithCause(paramName, err)
	}
	if err := ValidateAmount(paramName, d); err != nil {
		return decimal.Zero, err
	}
	return Round2(d), nil
}
