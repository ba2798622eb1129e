package policy

import (
	"time"

	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// BookingPolicyParams is the exported shape used to construct and persist a BookingPolicy.
type BookingPolicyParams struct {
	MinAdvanceBookingHours    int             `json:"min_advance_booking_hours"`
	MaxAdvanceBookingDays     int             `json:"max_advance_booking_days"`
	CancellationWindowHours   int             `json:"cancellation_window_hours"`
	CancellationFeePercentage decimal.Decimal `json:"cancellation_fee_percentage"`
	AllowRescheduling         bool            `json:"allow_rescheduling"`
	RescheduleWindowHours     int             `json:"reschedule_window_hours"`
	RequireDeposit            bool            `json:"require_deposit"`
	DepositPercentage         decimal.Decimal `json:"deposit_percentage"`
}

// BookingPolicy is snapshotted onto a booking when it is requested.
type BookingPolicy struct {
	params BookingPolicyParams
}

func NewBookingPolicy(p BookingPolicyParams) (BookingPolicy, error) {
	if err := validateNonNegative("minAdvanceBookingHours", p.MinAdvanceBookingHours); err != nil {
		return BookingPolicy{}, err
	}
	if err := validateNonNegative("maxAdvanceBookingDays", p.MaxAdvanceBookingDays); err != nil {
		return BookingPolicy{}, err
	}
	if p.MaxAdvanceBookingDays*24 < p.MinAdvanceBookingHours {
		return BookingPolicy{}, errs.NewValidation("maxAdvanceBookingDays", "maximum advance must not be shorter than the minimum advance")
	}
	if err := validateNonNegative("cancellationWindowHours", p.CancellationWindowHours); err != nil {
		return BookingPolicy{}, err
	}
	if err := validateNonNegative("rescheduleWindowHours", p.RescheduleWindowHours); err != nil {
		return BookingPolicy{}, err
	}
	if err := validatePercentage("cancellationFeePercentage", p.CancellationFeePercentage); err != nil {
		return BookingPolicy{}, err
	}
	if err := validatePercentage("depositPercentage", p.DepositPercentage); err != nil {
		return BookingPolicy{}, err
	}
	if p.RequireDeposit && !p.DepositPercentage.IsPositive() {
		return BookingPolicy{}, errs.NewValidation("depositPercentage", "deposit percentage is required when a deposit is required")
	}
	return BookingPolicy{params: p}, nil
}

func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{params: BookingPolicyParams{
		MinAdvanceBookingHours:    2,
		MaxAdvanceBookingDays:     90,
		CancellationWindowHours:   24,
		CancellationFeePercentage: decimal.Zero,
		AllowRescheduling:         true,
		RescheduleWindowHours:     24,
		RequireDeposit:            false,
		DepositPercentage:         decimal.Zero,
	}}
}

func FlexibleBookingPolicy() BookingPolicy {
	return BookingPolicy{params: BookingPolicyParams{
		MinAdvanceBookingHours:    1,
		MaxAdvanceBookingDays:     180,
		CancellationWindowHours:   12,
		CancellationFeePercentage: decimal.Zero,
		AllowRescheduling:         true,
		RescheduleWindowHours:     2,
		RequireDeposit:            false,
		DepositPercentage:         decimal.Zero,
	}}
}

func StrictBookingPolicy() BookingPolicy {
	return BookingPolicy{params: BookingPolicyParams{
		MinAdvanceBookingHours:    24,
		MaxAdvanceBookingDays:     60,
		CancellationWindowHours:   48,
		CancellationFeePercentage: decimal.NewFromInt(50),
		AllowRescheduling:         false,
		RescheduleWindowHours:     72,
		RequireDeposit:            true,
		DepositPercentage:         decimal.NewFromInt(30),
	}}
}

func (p BookingPolicy) Params() BookingPolicyParams { return p.params }

func (p BookingPolicy) MinAdvanceBookingHours() int  { return p.params.MinAdvanceBookingHours }
func (p BookingPolicy) MaxAdvanceBookingDays() int   { return p.params.MaxAdvanceBookingDays }
func (p BookingPolicy) CancellationWindowHours() int { return p.params.CancellationWindowHours }
func (p BookingPolicy) AllowRescheduling() bool      { return p.params.AllowRescheduling }
func (p BookingPolicy) RescheduleWindowHours() int   { return p.params.RescheduleWindowHours }
func (p BookingPolicy) RequireDeposit() bool         { return p.params.RequireDeposit }
func (p BookingPolicy) DepositPercentage() decimal.Decimal {
	return p.params.DepositPercentage
}
func (p BookingPolicy) CancellationFeePercentage() decimal.Decimal {
	return p.params.CancellationFeePercentage
}

func (p BookingPolicy) EarliestStart(now time.Time) time.Time {
	return now.Add(time.Duration(p.params.MinAdvanceBookingHours) * time.Hour)
}

func (p BookingPolicy) LatestStart(now time.Time) time.Time {
	return now.AddDate(0, 0, p.params.MaxAdvanceBookingDays)
}

// AllowsStart reports whether start lies in the future and inside the advance booking window.
func (p BookingPolicy) AllowsStart(start, now time.Time) bool {
	if !start.After(now) {
		return false
	}
	return !start.Before(p.EarliestStart(now)) && !start.After(p.LatestStart(now))
}

func (p BookingPolicy) DepositFor(price valueobject.Money) valueobject.Money {
	if !p.params.RequireDeposit {
		return valueobject.ZeroMoney(price.Currency())
	}
	return price.Percent(p.params.DepositPercentage)
}

func (p BookingPolicy) IsLateCancellation(start, now time.Time) bool {
	return start.Sub(now) < time.Duration(p.params.CancellationWindowHours)*time.Hour
}

func (p BookingPolicy) IsWithinRescheduleWindow(start, now time.Time) bool {
	return start.Sub(now) < time.Duration(p.params.RescheduleWindowHours)*time.Hour
}

// ReconstructBookingPolicy restores a persisted snapshot without re-validating it.
func ReconstructBookingPolicy(p BookingPolicyParams) BookingPolicy {
	return BookingPolicy{params: p}
}
