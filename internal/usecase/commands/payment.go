package commands

import (
	"context"
	"log/slog"

	"booking-core/internal/domain/booking"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPaymentDeclined  = errs.Rule("payment was declined by the gateway")
	ErrRefundDeclined   = errs.Rule("refund was declined by the gateway")
	ErrNothingDue       = errs.Rule("booking has no outstanding balance")
	ErrBookingNotClosed = errs.Rule("only cancelled bookings are refunded")
)

type RefundOutcome struct {
	Booking  *booking.Booking
	RefundID string
}

// PaymentCommands talks to the payment gateway and records what it reports
// through BookingCommands.
type PaymentCommands interface {
	ChargeDeposit(ctx context.Context, bookingID uuid.UUID, paymentMethodID string) (*PaymentResult, error)
	ChargeRemaining(ctx context.Context, bookingID uuid.UUID, paymentMethodID string) (*PaymentResult, error)
	RefundCancelled(ctx context.Context, bookingID uuid.UUID) (*RefundOutcome, error)
}

type paymentUseCaseImpl struct {
	uow      shared.UnitOfWork
	bookings BookingCommands
	gateway  shared.PaymentGateway
	refunds  shared.RefundPolicyProvider
	logger   *slog.Logger
}

func NewPaymentUseCase(
	uow shared.UnitOfWork,
	bookings BookingCommands,
	gateway shared.PaymentGateway,
	refunds shared.RefundPolicyProvider,
	logger *slog.Logger,
) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:      uow,
		bookings: bookings,
		gateway:  gateway,
		refunds:  refunds,
		logger:   logger,
	}
}

func (uc *paymentUseCaseImpl) load(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	var b *booking.Booking
	err := uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return notFoundAs(err, ErrBookingNotFound)
		}
		b = found
		return nil
	})
	return b, err
}

func (uc *paymentUseCaseImpl) ChargeDeposit(ctx context.Context, bookingID uuid.UUID, paymentMethodID string) (*PaymentResult, error) {
	b, err := uc.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	deposit := b.Payment().DepositAmount()
	if deposit.IsZero() {
		return nil, booking.ErrNoDepositRequired
	}
	if b.Payment().HasAtLeastPartialPayment() {
		return &PaymentResult{Booking: b}, nil
	}

	res, err := uc.gateway.Charge(ctx, deposit, paymentMethodID)
	if err != nil {
		return nil, errs.Wrap(err, "deposit charge failed")
	}
	if !res.Success {
		uc.logger.InfoContext(ctx, "deposit declined", slog.String("booking_id", bookingID.String()))
		return nil, ErrPaymentDeclined
	}
	return uc.bookings.RecordDepositPayment(ctx, bookingID, res.IntentID)
}

func (uc *paymentUseCaseImpl) ChargeRemaining(ctx context.Context, bookingID uuid.UUID, paymentMethodID string) (*PaymentResult, error) {
	b, err := uc.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	remaining := b.RemainingPayment()
	if remaining.IsZero() {
		return nil, ErrNothingDue
	}

	res, err := uc.gateway.Charge(ctx, remaining, paymentMethodID)
	if err != nil {
		return nil, errs.Wrap(err, "balance charge failed")
	}
	if !res.Success {
		uc.logger.InfoContext(ctx, "balance charge declined", slog.String("booking_id", bookingID.String()))
		return nil, ErrPaymentDeclined
	}
	return uc.bookings.RecordFullPayment(ctx, bookingID, res.IntentID)
}

// RefundCancelled pays back what the refund policy grants for a cancelled
// booking. When nothing is due the booking is returned unchanged.
func (uc *paymentUseCaseImpl) RefundCancelled(ctx context.Context, bookingID uuid.UUID) (*RefundOutcome, error) {
	b, err := uc.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status() != booking.StatusCancelled {
		return nil, ErrBookingNotClosed
	}

	due, err := refundDue(ctx, uc.refunds, b)
	if err != nil {
		return nil, err
	}
	if due.IsZero() {
		return &RefundOutcome{Booking: b}, nil
	}

	res, err := uc.gateway.Refund(ctx, b.Payment().PaymentIntentID(), due)
	if err != nil {
		return nil, errs.Wrap(err, "refund failed")
	}
	if !res.Success {
		return nil, ErrRefundDeclined
	}

	updated, err := uc.bookings.RecordRefund(ctx, bookingID, due, res.RefundID, "cancellation refund")
	if err != nil {
		return nil, err
	}
	uc.logger.InfoContext(ctx, "cancellation refunded",
		slog.String("booking_id", bookingID.String()),
		slog.String("amount", due.String()))
	return &RefundOutcome{Booking: updated, RefundID: res.RefundID}, nil
}
