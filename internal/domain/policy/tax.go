package policy

import (
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type TaxMode string

const (
	TaxExclusive TaxMode = "exclusive"
	TaxInclusive TaxMode = "inclusive"
)

type TaxRate struct {
	percentage decimal.Decimal
	mode       TaxMode
}

func NewTaxRate(pct decimal.Decimal, mode TaxMode) (TaxRate, error) {
	if err := validatePercentage("percentage", pct); err != nil {
		return TaxRate{}, err
	}
	if mode != TaxExclusive && mode != TaxInclusive {
		return TaxRate{}, errs.NewValidation("mode", "tax mode must be exclusive or inclusive")
	}
	return TaxRate{percentage: pct, mode: mode}, nil
}

func NoTax() TaxRate {
	return TaxRate{percentage: decimal.Zero, mode: TaxExclusive}
}

func (t TaxRate) Percentage() decimal.Decimal { return t.percentage }
func (t TaxRate) Mode() TaxMode               { return t.mode }

// CalculateBaseAmount strips embedded tax in inclusive mode: base = total / (1 + pct/100).
func (t TaxRate) CalculateBaseAmount(amount valueobject.Money) valueobject.Money {
	if t.mode == TaxExclusive {
		return amount
	}
	return amount.DivRound(decimal.NewFromInt(1).Add(t.percentage.Div(hundred)))
}

func (t TaxRate) CalculateTaxAmount(amount valueobject.Money) valueobject.Money {
	if t.mode == TaxExclusive {
		return amount.Percent(t.percentage)
	}
	// base never exceeds amount and shares its currency
	tax, _ := amount.SubFloor(t.CalculateBaseAmount(amount))
	return tax
}

func (t TaxRate) CalculateTotalWithTax(amount valueobject.Money) valueobject.Money {
	if t.mode == TaxInclusive {
		return amount
	}
	total, _ := amount.Add(t.CalculateTaxAmount(amount))
	return total
}
