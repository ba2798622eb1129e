package policy

import (
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
	CommissionMixed      CommissionType = "mixed"
)

func (t CommissionType) IsValid() bool {
	switch t {
	case CommissionPercentage, CommissionFixed, CommissionMixed:
		return true
	default:
		return false
	}
}

// CommissionRate is the platform's cut of a provider's gross booking revenue.
type CommissionRate struct {
	kind        CommissionType
	percentage  decimal.Decimal
	fixedAmount *valueobject.Money
}

func NewPercentageCommission(pct decimal.Decimal) (CommissionRate, error) {
	if err := validatePercentage("percentage", pct); err != nil {
		return CommissionRate{}, err
	}
	return CommissionRate{kind: CommissionPercentage, percentage: pct}, nil
}

func NewFixedCommission(amount valueobject.Money) CommissionRate {
	return CommissionRate{kind: CommissionFixed, percentage: decimal.Zero, fixedAmount: &amount}
}

func NewMixedCommission(pct decimal.Decimal, amount valueobject.Money) (CommissionRate, error) {
	if err := validatePercentage("percentage", pct); err != nil {
		return CommissionRate{}, err
	}
	return CommissionRate{kind: CommissionMixed, percentage: pct, fixedAmount: &amount}, nil
}

func (c CommissionRate) Type() CommissionType        { return c.kind }
func (c CommissionRate) Percentage() decimal.Decimal { return c.percentage }

// CalculateCommission never exceeds the gross amount. This holds for fixed
// commissions too: a fixed amount above gross yields gross, not the fixed amount.
// The only failure is a gross amount in a different currency than the fixed part.
func (c CommissionRate) CalculateCommission(gross valueobject.Money) (valueobject.Money, error) {
	commission := valueobject.ZeroMoney(gross.Currency())
	if c.kind == CommissionPercentage || c.kind == CommissionMixed {
		commission = gross.Percent(c.percentage)
	}
	if c.kind == CommissionFixed || c.kind == CommissionMixed {
		var err error
		commission, err = commission.Add(*c.fixedAmount)
		if err != nil {
			return valueobject.Money{}, errs.Wrap(err, "commission currency")
		}
	}

	cmp, err := commission.Cmp(gross)
	if err != nil {
		return valueobject.Money{}, err
	}
	if cmp > 0 {
		return gross, nil
	}
	return commission, nil
}

func (c CommissionRate) CalculateNetAmount(gross valueobject.Money) (valueobject.Money, error) {
	commission, err := c.CalculateCommission(gross)
	if err != nil {
		return valueobject.Money{}, err
	}
	return gross.Sub(commission)
}
