//go:build unit

package policy_test

import (
	"testing"

	"booking-core/internal/domain/policy"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionRate(t *testing.T) {
	mixed, err := policy.NewMixedCommission(decimal.NewFromInt(10), usd("25"))
	require.NoError(t, err)
	pct, err := policy.NewPercentageCommission(decimal.NewFromInt(15))
	require.NoError(t, err)
	fixed := policy.NewFixedCommission(usd("40"))

	cases := []struct {
		name           string
		rate           policy.CommissionRate
		gross          string
		wantCommission string
		wantNet        string
	}{
		{name: "mixed 10% + 25 on 1000", rate: mixed, gross: "1000", wantCommission: "125", wantNet: "875"},
		{name: "percentage", rate: pct, gross: "200", wantCommission: "30", wantNet: "170"},
		{name: "fixed", rate: fixed, gross: "200", wantCommission: "40", wantNet: "160"},
		{name: "fixed capped at gross", rate: fixed, gross: "30", wantCommission: "30", wantNet: "0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			commission, err := c.rate.CalculateCommission(usd(c.gross))
			require.NoError(t, err)
			assert.True(t, commission.Equal(usd(c.wantCommission)), "commission %s", commission)

			net, err := c.rate.CalculateNetAmount(usd(c.gross))
			require.NoError(t, err)
			assert.True(t, net.Equal(usd(c.wantNet)), "net %s", net)
		})
	}

	t.Run("fixed part in another currency NG", func(t *testing.T) {
		_, err := mixed.CalculateCommission(valueobject.MustMoney("100", "EUR"))
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("percentage out of range NG", func(t *testing.T) {
		_, err := policy.NewPercentageCommission(decimal.NewFromInt(101))
		require.ErrorIs(t, err, errs.ErrValidation)
	})
}
