package policy

import "booking-core/internal/domain/valueobject"

// Settlement splits a booking price into what the customer pays, tax, platform
// commission and provider payout.
type Settlement struct {
	Gross      valueobject.Money
	Base       valueobject.Money
	Tax        valueobject.Money
	Commission valueobject.Money
	Payout     valueobject.Money
}

// Settle interprets price according to the tax mode (pre-tax when exclusive,
// tax included when inclusive) and charges commission on the pre-tax base.
func Settle(price valueobject.Money, commission CommissionRate, tax TaxRate) (Settlement, error) {
	base := tax.CalculateBaseAmount(price)

	fee, err := commission.CalculateCommission(base)
	if err != nil {
		return Settlement{}, err
	}
	payout, err := base.Sub(fee)
	if err != nil {
		return Settlement{}, err
	}

	return Settlement{
		Gross:      tax.CalculateTotalWithTax(price),
		Base:       base,
		Tax:        tax.CalculateTaxAmount(price),
		Commission: fee,
		Payout:     payout,
	}, nil
}
