package policy

import (
	"time"

	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type RefundPolicyParams struct {
	AllowRefunds              bool            `json:"allow_refunds"`
	FullRefundWindowHours     int             `json:"full_refund_window_hours"`
	PartialRefundWindowHours  int             `json:"partial_refund_window_hours"`
	PartialRefundPercentage   decimal.Decimal `json:"partial_refund_percentage"`
	CancellationFeePercentage decimal.Decimal `json:"cancellation_fee_percentage"`
	// RefundProcessingFees is reported with the policy; gateway refunds always
	// pay back the computed amount.
	RefundProcessingFees bool `json:"refund_processing_fees"`
}

type RefundPolicy struct {
	params RefundPolicyParams
}

// NewRefundPolicy validates ranges and rejects configurations whose refund would
// shrink as the booking gets further away. The partial branch is only reachable
// when its window is shorter than the full one, and then it must pay at least
// as much as the fallback fee branch.
func NewRefundPolicy(p RefundPolicyParams) (RefundPolicy, error) {
	if err := validateNonNegative("fullRefundWindowHours", p.FullRefundWindowHours); err != nil {
		return RefundPolicy{}, err
	}
	if err := validateNonNegative("partialRefundWindowHours", p.PartialRefundWindowHours); err != nil {
		return RefundPolicy{}, err
	}
	if err := validatePercentage("partialRefundPercentage", p.PartialRefundPercentage); err != nil {
		return RefundPolicy{}, err
	}
	if err := validatePercentage("cancellationFeePercentage", p.CancellationFeePercentage); err != nil {
		return RefundPolicy{}, err
	}
	if p.PartialRefundWindowHours < p.FullRefundWindowHours {
		floor := hundred.Sub(p.CancellationFeePercentage)
		if p.PartialRefundPercentage.LessThan(floor) {
			return RefundPolicy{}, errs.NewValidation("partialRefundPercentage", "partial refund must not be smaller than the refund after the cancellation fee")
		}
	}
	return RefundPolicy{params: p}, nil
}

func DefaultRefundPolicy() RefundPolicy {
	return RefundPolicy{params: RefundPolicyParams{
		AllowRefunds:              true,
		FullRefundWindowHours:     48,
		PartialRefundWindowHours:  24,
		PartialRefundPercentage:   decimal.NewFromInt(75),
		CancellationFeePercentage: decimal.NewFromInt(50),
		RefundProcessingFees:      false,
	}}
}

func FlexibleRefundPolicy() RefundPolicy {
	return RefundPolicy{params: RefundPolicyParams{
		AllowRefunds:              true,
		FullRefundWindowHours:     24,
		PartialRefundWindowHours:  48,
		PartialRefundPercentage:   decimal.NewFromInt(50),
		CancellationFeePercentage: decimal.NewFromInt(10),
		RefundProcessingFees:      true,
	}}
}

func StrictRefundPolicy() RefundPolicy {
	return RefundPolicy{params: RefundPolicyParams{
		AllowRefunds:              true,
		FullRefundWindowHours:     168,
		PartialRefundWindowHours:  72,
		PartialRefundPercentage:   decimal.NewFromInt(50),
		CancellationFeePercentage: decimal.NewFromInt(100),
		RefundProcessingFees:      false,
	}}
}

func RefundPolicyByTier(tier string) (RefundPolicy, error) {
	switch tier {
	case "default", "":
		return DefaultRefundPolicy(), nil
	case "flexible":
		return FlexibleRefundPolicy(), nil
	case "strict":
		return StrictRefundPolicy(), nil
	default:
		return RefundPolicy{}, errs.NewValidation("tier", "unknown refund policy tier "+tier)
	}
}

func (p RefundPolicy) Params() RefundPolicyParams    { return p.params }
func (p RefundPolicy) AllowRefunds() bool            { return p.params.AllowRefunds }
func (p RefundPolicy) RefundProcessingFees() bool    { return p.params.RefundProcessingFees }
func (p RefundPolicy) FullRefundWindowHours() int    { return p.params.FullRefundWindowHours }
func (p RefundPolicy) PartialRefundWindowHours() int { return p.params.PartialRefundWindowHours }

// CalculateRefundAmount evaluates the branches strictly in order: disabled,
// full window, partial window, then the cancellation fee fallback.
func (p RefundPolicy) CalculateRefundAmount(paid valueobject.Money, bookingStart, now time.Time) valueobject.Money {
	if !p.params.AllowRefunds {
		return valueobject.ZeroMoney(paid.Currency())
	}

	hoursUntil := bookingStart.Sub(now).Hours()
	switch {
	case hoursUntil >= float64(p.params.FullRefundWindowHours):
		return paid
	case hoursUntil >= float64(p.params.PartialRefundWindowHours):
		return paid.Percent(p.params.PartialRefundPercentage)
	default:
		return paid.Percent(hundred.Sub(p.params.CancellationFeePercentage))
	}
}
