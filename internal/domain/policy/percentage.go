package policy

import (
	"booking-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func validatePercentage(field string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return errs.NewValidation(field, "percentage must be between 0 and 100")
	}
	return nil
}

func validateNonNegative(field string, v int) error {
	if v < 0 {
		return errs.NewValidation(field, "must not be negative")
	}
	return nil
}
