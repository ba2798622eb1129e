package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/booking"
	"booking-core/internal/domain/policy"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.NotFound("booking not found")

type RequestBookingInput struct {
	// CustomerID is nil for guest requests; Guest must then be set.
	CustomerID      *uuid.UUID
	Guest           *shared.GuestContact
	ProviderID      uuid.UUID
	ServiceID       uuid.UUID
	StaffID         *uuid.UUID
	StartTime       time.Time
	DurationMinutes int
	Price           valueobject.Money
	Policy          policy.BookingPolicy
	Notes           string
}

type RescheduleInput struct {
	BookingID  uuid.UUID
	NewStart   time.Time
	NewStaffID *uuid.UUID
	Reason     string
}

type CancelResult struct {
	Booking   *booking.Booking
	RefundDue valueobject.Money
}

// PaymentResult carries the refund owed when a payment lands on a booking that
// was cancelled before the gateway reported back.
type PaymentResult struct {
	Booking   *booking.Booking
	RefundDue *valueobject.Money
}

type BookingCommands interface {
	RequestBooking(ctx context.Context, in RequestBookingInput) (*booking.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*CancelResult, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error)
	MarkNoShow(ctx context.Context, bookingID uuid.UUID, notes string) (*booking.Booking, error)
	RescheduleBooking(ctx context.Context, in RescheduleInput) (*booking.Booking, error)
	RecordDepositPayment(ctx context.Context, bookingID uuid.UUID, intentID string) (*PaymentResult, error)
	RecordFullPayment(ctx context.Context, bookingID uuid.UUID, intentID string) (*PaymentResult, error)
	RecordRefund(ctx context.Context, bookingID uuid.UUID, amount valueobject.Money, refundID, notes string) (*booking.Booking, error)
}

type bookingUseCaseImpl struct {
	uow        shared.UnitOfWork
	users      shared.UserProvisioner
	refunds    shared.RefundPolicyProvider
	cache      shared.HeatmapCache
	metrics    shared.Metrics
	clock      clock.Clock
	logger     *slog.Logger
	maxRetries int
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	users shared.UserProvisioner,
	refunds shared.RefundPolicyProvider,
	cache shared.HeatmapCache,
	metrics shared.Metrics,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.BookingConfig,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:        uow,
		users:      users,
		refunds:    refunds,
		cache:      cache,
		metrics:    metrics,
		clock:      clk,
		logger:     logger,
		maxRetries: cfg.MaxConflictRetries,
	}
}

func (uc *bookingUseCaseImpl) RequestBooking(ctx context.Context, in RequestBookingInput) (*booking.Booking, error) {
	duration, err := valueobject.NewDuration(in.DurationMinutes)
	if err != nil {
		return nil, err
	}
	customerID, err := uc.resolveCustomer(ctx, in)
	if err != nil {
		return nil, err
	}

	var created *booking.Booking
	attempt := func() error {
		created = nil
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			now := uc.clock.Now()
			slot, err := uc.claimableSlot(ctx, tx, in.ProviderID, in.StartTime, duration, in.StaffID, nil)
			if err != nil {
				return err
			}

			b, err := booking.NewRequest(booking.RequestParams{
				CustomerID:    customerID,
				ProviderID:    in.ProviderID,
				ServiceID:     in.ServiceID,
				StaffID:       in.StaffID,
				StartTime:     in.StartTime,
				Duration:      duration,
				Price:         in.Price,
				Policy:        in.Policy,
				CustomerNotes: in.Notes,
			}, now)
			if err != nil {
				return err
			}

			if err := uc.allocate(ctx, tx, slot, b.ID(), in.StaffID, now); err != nil {
				return err
			}
			if err := tx.Bookings().Create(ctx, b); err != nil {
				return err
			}
			created = b
			return nil
		})
	}

	if err := uc.retryAllocation(ctx, attempt); err != nil {
		return nil, err
	}

	uc.metrics.BookingTransition(created.Status().String())
	invalidateHeatmaps(ctx, uc.cache, uc.logger, created.ProviderID())
	uc.logger.InfoContext(ctx, "booking requested",
		slog.String("booking_id", created.ID().String()),
		slog.String("provider_id", created.ProviderID().String()))
	return created, nil
}

func (uc *bookingUseCaseImpl) resolveCustomer(ctx context.Context, in RequestBookingInput) (uuid.UUID, error) {
	if in.CustomerID != nil {
		return *in.CustomerID, nil
	}
	if in.Guest == nil {
		return uuid.Nil, errs.NewValidation("customerId", "customer or guest contact is required")
	}
	id, err := uc.users.ProvisionCustomer(ctx, *in.Guest)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to provision guest customer")
	}
	return id, nil
}

// claimableSlot finds the slot covering [start, start+duration) and checks that
// nothing else blocks it for the staff member. Slots held by ignoreBookingID do
// not count as blockers. The provider lock taken here is held until the caller's
// transaction ends, so the overlap check and the allocation cannot interleave
// with another request for the same provider.
func (uc *bookingUseCaseImpl) claimableSlot(
	ctx context.Context,
	tx shared.Tx,
	providerID uuid.UUID,
	start time.Time,
	duration valueobject.Duration,
	staffID *uuid.UUID,
	ignoreBookingID *uuid.UUID,
) (*availability.Slot, error) {
	end := start.Add(duration.Std())
	if err := tx.Slots().LockProvider(ctx, providerID); err != nil {
		return nil, err
	}
	slot, err := tx.Slots().FindSlot(ctx, providerID, availability.DateOf(start), start, end, staffID)
	if err != nil {
		return nil, notFoundAs(err, ErrSlotNotFound)
	}
	if !slot.IsAvailable() {
		return nil, ErrSlotUnavailable
	}

	slotID := slot.ID()
	overlapping, err := tx.Slots().FindOverlapping(ctx, providerID, start, end, &slotID)
	if err != nil {
		return nil, err
	}
	for _, other := range overlapping {
		if ignoreBookingID != nil && other.BookingID() != nil && *other.BookingID() == *ignoreBookingID {
			continue
		}
		if slot.ConflictsWith(other, staffID) {
			return nil, ErrSlotUnavailable
		}
	}
	return slot, nil
}

func (uc *bookingUseCaseImpl) allocate(ctx context.Context, tx shared.Tx, slot *availability.Slot, bookingID uuid.UUID, staffID *uuid.UUID, now time.Time) error {
	err := tx.Slots().Allocate(ctx, slot.ID(), bookingID, staffID, now)
	if err != nil && errs.IsConflict(err) {
		uc.metrics.AllocationConflict(slot.ProviderID())
	}
	return err
}

// retryAllocation retries lost allocation races. Once a fresh read shows the slot
// taken, or the retries run out, the caller gets ErrSlotUnavailable.
func (uc *bookingUseCaseImpl) retryAllocation(ctx context.Context, attempt func() error) error {
	err := retryOnConflict(ctx, uc.maxRetries, attempt, ErrSlotUnavailable)
	if err != nil && errs.IsConflict(err) && !errs.Is(err, ErrSlotUnavailable) {
		return errs.Mark(err, ErrSlotUnavailable)
	}
	return err
}

func (uc *bookingUseCaseImpl) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	return uc.mutate(ctx, bookingID, func(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error {
		if err := b.Confirm(now); err != nil {
			return err
		}
		slot, err := tx.Slots().FindByBookingID(ctx, b.ID())
		if err != nil {
			return notFoundAs(err, ErrSlotNotFound)
		}
		return tx.Slots().ConfirmHold(ctx, slot.ID(), b.ID())
	})
}

func (uc *bookingUseCaseImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*CancelResult, error) {
	b, err := uc.mutate(ctx, bookingID, func(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error {
		if err := b.Cancel(reason, now); err != nil {
			return err
		}
		return uc.releaseSlotOf(ctx, tx, b.ID())
	})
	if err != nil {
		return nil, err
	}

	due, err := refundDue(ctx, uc.refunds, b)
	if err != nil {
		return nil, err
	}
	invalidateHeatmaps(ctx, uc.cache, uc.logger, b.ProviderID())
	return &CancelResult{Booking: b, RefundDue: due}, nil
}

// releaseSlotOf frees the slot allocated to bookingID. A slot already released
// by the hold sweep is not an error.
func (uc *bookingUseCaseImpl) releaseSlotOf(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) error {
	slot, err := tx.Slots().FindByBookingID(ctx, bookingID)
	if errs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return tx.Slots().Release(ctx, slot.ID(), bookingID)
}

func (uc *bookingUseCaseImpl) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	return uc.mutate(ctx, bookingID, func(_ context.Context, _ shared.Tx, b *booking.Booking, now time.Time) error {
		return b.Complete(now)
	})
}

func (uc *bookingUseCaseImpl) MarkNoShow(ctx context.Context, bookingID uuid.UUID, notes string) (*booking.Booking, error) {
	return uc.mutate(ctx, bookingID, func(_ context.Context, _ shared.Tx, b *booking.Booking, now time.Time) error {
		return b.MarkNoShow(notes, now)
	})
}

// RescheduleBooking moves the allocation to the new slot and retires the old
// booking in one transaction. The returned booking is the new Requested one.
func (uc *bookingUseCaseImpl) RescheduleBooking(ctx context.Context, in RescheduleInput) (*booking.Booking, error) {
	var next *booking.Booking
	attempt := func() error {
		next = nil
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			now := uc.clock.Now()
			old, err := tx.Bookings().FindByID(ctx, in.BookingID)
			if err != nil {
				return notFoundAs(err, ErrBookingNotFound)
			}

			staffID := old.StaffID()
			if in.NewStaffID != nil {
				staffID = in.NewStaffID
			}
			oldID := old.ID()
			slot, err := uc.claimableSlot(ctx, tx, old.ProviderID(), in.NewStart, old.TimeSlot().Duration(), staffID, &oldID)
			if err != nil {
				return err
			}

			n, err := old.Reschedule(in.NewStart, in.NewStaffID, in.Reason, now)
			if err != nil {
				return err
			}

			// the old range must be free before the new one is booked, or the
			// exclusion constraint rejects overlapping moves
			if err := uc.releaseSlotOf(ctx, tx, old.ID()); err != nil {
				return err
			}
			if err := uc.allocate(ctx, tx, slot, n.ID(), staffID, now); err != nil {
				return err
			}
			if err := tx.Bookings().Update(ctx, old); err != nil {
				return err
			}
			if err := tx.Bookings().Create(ctx, n); err != nil {
				return err
			}
			next = n
			return nil
		})
	}

	if err := uc.retryAllocation(ctx, attempt); err != nil {
		return nil, err
	}

	uc.metrics.BookingTransition(booking.StatusRescheduled.String())
	uc.metrics.BookingTransition(next.Status().String())
	invalidateHeatmaps(ctx, uc.cache, uc.logger, next.ProviderID())
	return next, nil
}

func (uc *bookingUseCaseImpl) RecordDepositPayment(ctx context.Context, bookingID uuid.UUID, intentID string) (*PaymentResult, error) {
	return uc.recordPayment(ctx, bookingID, func(b *booking.Booking, now time.Time) error {
		return b.ProcessDepositPayment(intentID, now)
	})
}

func (uc *bookingUseCaseImpl) RecordFullPayment(ctx context.Context, bookingID uuid.UUID, intentID string) (*PaymentResult, error) {
	return uc.recordPayment(ctx, bookingID, func(b *booking.Booking, now time.Time) error {
		return b.ProcessFullPayment(intentID, now)
	})
}

// recordPayment applies the payment first and only then looks at the status, so
// money captured for a booking cancelled in the meantime is never dropped.
func (uc *bookingUseCaseImpl) recordPayment(ctx context.Context, bookingID uuid.UUID, apply func(*booking.Booking, time.Time) error) (*PaymentResult, error) {
	b, err := uc.mutate(ctx, bookingID, func(_ context.Context, _ shared.Tx, b *booking.Booking, now time.Time) error {
		return apply(b, now)
	})
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{Booking: b}
	if b.Status() == booking.StatusCancelled {
		due, err := refundDue(ctx, uc.refunds, b)
		if err != nil {
			return nil, err
		}
		if !due.IsZero() {
			result.RefundDue = &due
			uc.logger.WarnContext(ctx, "payment recorded on cancelled booking",
				slog.String("booking_id", b.ID().String()),
				slog.String("refund_due", due.String()))
		}
	}
	return result, nil
}

func (uc *bookingUseCaseImpl) RecordRefund(ctx context.Context, bookingID uuid.UUID, amount valueobject.Money, refundID, notes string) (*booking.Booking, error) {
	return uc.mutate(ctx, bookingID, func(_ context.Context, _ shared.Tx, b *booking.Booking, now time.Time) error {
		return b.ProcessRefund(amount, refundID, notes, now)
	})
}

type mutation func(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error

// mutate loads the booking, applies fn and saves it with a version check. Stale
// writes are retried against a fresh read.
func (uc *bookingUseCaseImpl) mutate(ctx context.Context, bookingID uuid.UUID, fn mutation) (*booking.Booking, error) {
	var (
		out    *booking.Booking
		before booking.Status
	)
	err := retryOnConflict(ctx, uc.maxRetries, func() error {
		out = nil
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			b, err := tx.Bookings().FindByID(ctx, bookingID)
			if err != nil {
				return notFoundAs(err, ErrBookingNotFound)
			}
			before = b.Status()
			if err := fn(ctx, tx, b, uc.clock.Now()); err != nil {
				return err
			}
			if err := tx.Bookings().Update(ctx, b); err != nil {
				return err
			}
			out = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if out.Status() != before {
		uc.metrics.BookingTransition(out.Status().String())
	}
	return out, nil
}
