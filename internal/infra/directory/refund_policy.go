package directory

import (
	"context"

	"booking-core/internal/domain/policy"

	"github.com/google/uuid"
)

// TierRefundPolicies hands every provider the refund policy of one configured tier.
type TierRefundPolicies struct {
	policy policy.RefundPolicy
}

func NewTierRefundPolicies(tier string) (*TierRefundPolicies, error) {
	p, err := policy.RefundPolicyByTier(tier)
	if err != nil {
		return nil, err
	}
	return &TierRefundPolicies{policy: p}, nil
}

func (t *TierRefundPolicies) RefundPolicyFor(_ context.Context, _, _ uuid.UUID) (policy.RefundPolicy, error) {
	return t.policy, nil
}
