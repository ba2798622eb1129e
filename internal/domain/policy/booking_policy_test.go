//go:build unit

package policy_test

import (
	"testing"
	"time"

	"booking-core/internal/domain/policy"
	"booking-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingPolicy_DepositFor(t *testing.T) {
	p, err := policy.NewBookingPolicy(policy.BookingPolicyParams{
		MinAdvanceBookingHours: 1,
		MaxAdvanceBookingDays:  30,
		RequireDeposit:         true,
		DepositPercentage:      decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.True(t, p.DepositFor(usd("100")).Equal(usd("30")))

	assert.True(t, policy.DefaultBookingPolicy().DepositFor(usd("100")).IsZero())
}

func TestBookingPolicy_AllowsStart(t *testing.T) {
	p := policy.DefaultBookingPolicy() // 2h .. 90d

	assert.False(t, p.AllowsStart(now.Add(-time.Minute), now), "past")
	assert.False(t, p.AllowsStart(now.Add(time.Hour), now), "inside minimum advance")
	assert.True(t, p.AllowsStart(now.Add(2*time.Hour), now), "exactly minimum advance")
	assert.True(t, p.AllowsStart(now.AddDate(0, 0, 90), now), "exactly maximum advance")
	assert.False(t, p.AllowsStart(now.AddDate(0, 0, 90).Add(time.Minute), now), "beyond maximum advance")
}

func TestBookingPolicy_Windows(t *testing.T) {
	p := policy.DefaultBookingPolicy()
	start := now.Add(10 * time.Hour)
	assert.True(t, p.IsLateCancellation(start, now))
	assert.True(t, p.IsWithinRescheduleWindow(start, now))
	assert.False(t, p.IsLateCancellation(now.Add(48*time.Hour), now))
}

func TestNewBookingPolicy_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*policy.BookingPolicyParams)
		field  string
	}{
		{name: "strict factory values OK", mutate: func(*policy.BookingPolicyParams) {}},
		{name: "negative min advance NG", mutate: func(p *policy.BookingPolicyParams) { p.MinAdvanceBookingHours = -1 }, field: "minAdvanceBookingHours"},
		{name: "max shorter than min NG", mutate: func(p *policy.BookingPolicyParams) { p.MaxAdvanceBookingDays = 0 }, field: "maxAdvanceBookingDays"},
		{name: "deposit over 100 NG", mutate: func(p *policy.BookingPolicyParams) { p.DepositPercentage = decimal.NewFromInt(120) }, field: "depositPercentage"},
		{name: "deposit required without percentage NG", mutate: func(p *policy.BookingPolicyParams) { p.DepositPercentage = decimal.Zero }, field: "depositPercentage"},
		{name: "fee over 100 NG", mutate: func(p *policy.BookingPolicyParams) { p.CancellationFeePercentage = decimal.NewFromInt(101) }, field: "cancellationFeePercentage"},
		{name: "negative reschedule window NG", mutate: func(p *policy.BookingPolicyParams) { p.RescheduleWindowHours = -2 }, field: "rescheduleWindowHours"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			params := policy.StrictBookingPolicy().Params()
			c.mutate(&params)
			_, err := policy.NewBookingPolicy(params)
			if c.field == "" {
				require.NoError(t, err)
				return
			}
			var vErr *errs.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, c.field, vErr.Field)
		})
	}
}
