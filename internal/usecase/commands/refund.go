package commands

import (
	"context"

	"booking-core/internal/domain/booking"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"
)

// refundDue is what the refund policy grants for a cancelled booking, measured
// at cancellation time, minus what was already refunded.
func refundDue(ctx context.Context, policies shared.RefundPolicyProvider, b *booking.Booking) (valueobject.Money, error) {
	zero := valueobject.ZeroMoney(b.TotalPrice().Currency())
	if b.Status() != booking.StatusCancelled || b.CancelledAt() == nil {
		return zero, nil
	}
	paid := b.Payment().PaidAmount()
	if paid.IsZero() {
		return zero, nil
	}

	rp, err := policies.RefundPolicyFor(ctx, b.ProviderID(), b.ServiceID())
	if err != nil {
		return zero, errs.Wrap(err, "failed to resolve refund policy")
	}
	entitled := rp.CalculateRefundAmount(paid, b.TimeSlot().Start(), *b.CancelledAt())
	due, err := entitled.SubFloor(b.Payment().RefundedAmount())
	if err != nil {
		return zero, err
	}
	return due, nil
}
