package booking

import (
	"fmt"
	"strings"
	"time"

	"booking-core/internal/domain/policy"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MaxNotesLength = 2000
	upcomingWindow = 24 * time.Hour
)

var (
	ErrInvalidSchedule        = errs.Rule("start time is outside the bookable window")
	ErrNotRequested           = errs.Rule("booking is not awaiting confirmation")
	ErrNotConfirmed           = errs.Rule("booking is not confirmed")
	ErrNotCancellable         = errs.Rule("booking cannot be cancelled in its current status")
	ErrNotReschedulable       = errs.Rule("booking cannot be rescheduled in its current status")
	ErrStartTimePassed        = errs.Rule("booking start time has already passed")
	ErrDepositNotPaid         = errs.Rule("required deposit has not been paid")
	ErrAppointmentNotEnded    = errs.Rule("appointment has not ended yet")
	ErrReschedulingNotAllowed = errs.Rule("rescheduling is not allowed by the booking policy")
	ErrNoDepositRequired      = errs.Rule("booking does not require a deposit")
	ErrPaymentAlreadySettled  = errs.Rule("payment has already been refunded")
	ErrNothingToRefund        = errs.Rule("booking has no payment to refund")
)

type RequestParams struct {
	CustomerID    uuid.UUID
	ProviderID    uuid.UUID
	ServiceID     uuid.UUID
	StaffID       *uuid.UUID
	StartTime     time.Time
	Duration      valueobject.Duration
	Price         valueobject.Money
	Policy        policy.BookingPolicy
	CustomerNotes string
}

type Booking struct {
	id                     uuid.UUID
	customerID             uuid.UUID
	providerID             uuid.UUID
	serviceID              uuid.UUID
	staffID                *uuid.UUID
	timeSlot               valueobject.TimeSlot
	totalPrice             valueobject.Money
	policy                 policy.BookingPolicy
	payment                PaymentInfo
	status                 Status
	customerNotes          string
	staffNotes             string
	cancellationReason     string
	requestedAt            time.Time
	confirmedAt            *time.Time
	cancelledAt            *time.Time
	completedAt            *time.Time
	noShowAt               *time.Time
	rescheduledAt          *time.Time
	history                []HistoryEntry
	previousBookingID      *uuid.UUID
	rescheduledToBookingID *uuid.UUID
	version                int
	updatedAt              time.Time
}

// NewRequest creates a booking in Requested state. It does not allocate a slot.
func NewRequest(p RequestParams, now time.Time) (*Booking, error) {
	if err := validateRequest(p); err != nil {
		return nil, err
	}
	if !p.Policy.AllowsStart(p.StartTime, now) {
		return nil, ErrInvalidSchedule
	}

	slot, err := valueobject.NewTimeSlotFromDuration(p.StartTime, p.Duration)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		id:            uuid.New(),
		customerID:    p.CustomerID,
		providerID:    p.ProviderID,
		serviceID:     p.ServiceID,
		staffID:       p.StaffID,
		timeSlot:      slot,
		totalPrice:    p.Price,
		policy:        p.Policy,
		payment:       newPaymentInfo(p.Policy.DepositFor(p.Price)),
		status:        StatusRequested,
		customerNotes: strings.TrimSpace(p.CustomerNotes),
		requestedAt:   now,
	}
	b.record(now, fmt.Sprintf("Booking requested for %s", slot.Start().Format(time.RFC3339)))
	return b, nil
}

func validateRequest(p RequestParams) error {
	if p.CustomerID == uuid.Nil {
		return errs.NewValidation("customerId", "customer is required")
	}
	if p.ProviderID == uuid.Nil {
		return errs.NewValidation("providerId", "provider is required")
	}
	if p.ServiceID == uuid.Nil {
		return errs.NewValidation("serviceId", "service is required")
	}
	if p.Duration.Minutes() <= 0 {
		return errs.NewValidation("duration", "duration must be a positive number of minutes")
	}
	if p.Price.Currency() == "" {
		return errs.NewValidation("price", "price is required")
	}
	if len(p.CustomerNotes) > MaxNotesLength {
		return errs.NewValidation("customerNotes", "notes are too long")
	}
	return nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.status != StatusRequested {
		return ErrNotRequested
	}
	if !now.Before(b.timeSlot.Start()) {
		return ErrStartTimePassed
	}
	if b.policy.RequireDeposit() && !b.payment.HasAtLeastPartialPayment() {
		return ErrDepositNotPaid
	}

	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.record(now, "Booking confirmed")
	return nil
}

// ProcessDepositPayment records a deposit captured by the gateway. It applies in any
// booking status; replays of the same intent and deposits arriving after a full
// payment are no-ops.
func (b *Booking) ProcessDepositPayment(intentID string, now time.Time) error {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return errs.NewValidation("paymentIntentId", "payment intent is required")
	}
	switch b.payment.status {
	case PaymentPaid:
		return nil
	case PaymentPartiallyPaid:
		if b.payment.paymentIntentID == intentID {
			return nil
		}
	case PaymentPartiallyRefunded, PaymentFullyRefunded:
		return ErrPaymentAlreadySettled
	}
	if b.payment.depositAmount.IsZero() {
		return ErrNoDepositRequired
	}

	b.payment.status = PaymentPartiallyPaid
	b.payment.paidAmount = b.payment.depositAmount
	b.payment.paymentIntentID = intentID
	b.record(now, fmt.Sprintf("Deposit of %s received (%s)", b.payment.depositAmount, intentID))
	return nil
}

func (b *Booking) ProcessFullPayment(intentID string, now time.Time) error {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return errs.NewValidation("paymentIntentId", "payment intent is required")
	}
	if b.payment.status.isRefunded() {
		return ErrPaymentAlreadySettled
	}
	if b.payment.status == PaymentPaid && b.payment.paymentIntentID == intentID {
		return nil
	}

	b.payment.status = PaymentPaid
	b.payment.paidAmount = b.totalPrice
	b.payment.paymentIntentID = intentID
	b.record(now, fmt.Sprintf("Full payment of %s received (%s)", b.totalPrice, intentID))
	return nil
}

// Cancel does not compute a refund; callers obtain it from the refund policy and
// record it with ProcessRefund.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if !b.status.IsActive() {
		return ErrNotCancellable
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > MaxNotesLength {
		return errs.NewValidation("reason", "reason is too long")
	}

	description := "Booking cancelled"
	if reason != "" {
		description += ": " + reason
	}
	if b.status == StatusConfirmed && b.policy.IsLateCancellation(b.timeSlot.Start(), now) {
		description += " (late cancellation)"
	}

	b.status = StatusCancelled
	b.cancellationReason = reason
	b.cancelledAt = &now
	b.record(now, description)
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if err := b.checkEnded(now); err != nil {
		return err
	}
	b.status = StatusCompleted
	b.completedAt = &now
	b.record(now, "Booking completed")
	return nil
}

func (b *Booking) MarkNoShow(notes string, now time.Time) error {
	if err := b.checkEnded(now); err != nil {
		return err
	}
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLength {
		return errs.NewValidation("notes", "notes are too long")
	}

	b.status = StatusNoShow
	b.noShowAt = &now
	description := "Customer did not show up"
	if notes != "" {
		b.staffNotes = notes
		description += ": " + notes
	}
	b.record(now, description)
	return nil
}

func (b *Booking) checkEnded(now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	if now.Before(b.timeSlot.End()) {
		return ErrAppointmentNotEnded
	}
	return nil
}

// Reschedule forks a new Requested booking at newStart and retires this one. It is
// permitted inside the reschedule window; the window only annotates history.
// Releasing the original slot is the caller's job.
func (b *Booking) Reschedule(newStart time.Time, newStaffID *uuid.UUID, reason string, now time.Time) (*Booking, error) {
	if !b.status.IsActive() {
		return nil, ErrNotReschedulable
	}
	if !b.policy.AllowRescheduling() {
		return nil, ErrReschedulingNotAllowed
	}

	staffID := b.staffID
	if newStaffID != nil {
		staffID = newStaffID
	}

	next, err := NewRequest(RequestParams{
		CustomerID:    b.customerID,
		ProviderID:    b.providerID,
		ServiceID:     b.serviceID,
		StaffID:       staffID,
		StartTime:     newStart,
		Duration:      b.timeSlot.Duration(),
		Price:         b.totalPrice,
		Policy:        b.policy,
		CustomerNotes: b.customerNotes,
	}, now)
	if err != nil {
		return nil, err
	}
	next.payment = b.payment
	previousID := b.id
	next.previousBookingID = &previousID
	next.record(now, fmt.Sprintf("Rescheduled from booking %s", b.id))

	description := fmt.Sprintf("Rescheduled to %s", newStart.Format(time.RFC3339))
	if reason = strings.TrimSpace(reason); reason != "" {
		description += ": " + reason
	}
	if b.policy.IsWithinRescheduleWindow(b.timeSlot.Start(), now) {
		description += " (inside reschedule window)"
	}

	nextID := next.id
	b.status = StatusRescheduled
	b.rescheduledAt = &now
	b.rescheduledToBookingID = &nextID
	b.record(now, description)
	return next, nil
}

func (b *Booking) ProcessRefund(amount valueobject.Money, refundID, notes string, now time.Time) error {
	refundID = strings.TrimSpace(refundID)
	if refundID == "" {
		return errs.NewValidation("refundId", "refund id is required")
	}
	if refundID == b.payment.refundID {
		return nil
	}
	if b.payment.paidAmount.IsZero() {
		return ErrNothingToRefund
	}
	if amount.IsZero() {
		return errs.NewValidation("amount", "refund amount must be positive")
	}

	refunded, err := b.payment.refundedAmount.Add(amount)
	if err != nil {
		return err
	}
	cmp, err := refunded.Cmp(b.payment.paidAmount)
	if err != nil {
		return err
	}
	if cmp > 0 {
		return errs.NewValidation("amount", "refund exceeds the amount paid")
	}

	b.payment.refundedAmount = refunded
	b.payment.refundID = refundID
	if cmp == 0 {
		b.payment.status = PaymentFullyRefunded
	} else {
		b.payment.status = PaymentPartiallyRefunded
	}
	description := fmt.Sprintf("Refund of %s processed (%s)", amount, refundID)
	if notes = strings.TrimSpace(notes); notes != "" {
		description += ": " + notes
	}
	b.record(now, description)
	return nil
}

// RemainingPayment is totalPrice - paidAmount, floored at zero.
func (b *Booking) RemainingPayment() valueobject.Money {
	remaining, err := b.totalPrice.SubFloor(b.payment.paidAmount)
	if err != nil {
		return valueobject.ZeroMoney(b.totalPrice.Currency())
	}
	return remaining
}

func (b *Booking) IsUpcoming(now time.Time) bool {
	start := b.timeSlot.Start()
	return !start.Before(now) && !start.After(now.Add(upcomingWindow))
}

func (b *Booking) IsInPast(now time.Time) bool {
	return now.After(b.timeSlot.End())
}

func (b *Booking) record(now time.Time, description string) {
	b.history = append(b.history, HistoryEntry{
		Sequence:    len(b.history) + 1,
		Timestamp:   now,
		Description: description,
	})
	b.updatedAt = now
}

func (b *Booking) ID() uuid.UUID                      { return b.id }
func (b *Booking) CustomerID() uuid.UUID              { return b.customerID }
func (b *Booking) ProviderID() uuid.UUID              { return b.providerID }
func (b *Booking) ServiceID() uuid.UUID               { return b.serviceID }
func (b *Booking) StaffID() *uuid.UUID                { return b.staffID }
func (b *Booking) TimeSlot() valueobject.TimeSlot     { return b.timeSlot }
func (b *Booking) TotalPrice() valueobject.Money      { return b.totalPrice }
func (b *Booking) Policy() policy.BookingPolicy       { return b.policy }
func (b *Booking) Payment() PaymentInfo               { return b.payment }
func (b *Booking) Status() Status                     { return b.status }
func (b *Booking) CustomerNotes() string              { return b.customerNotes }
func (b *Booking) StaffNotes() string                 { return b.staffNotes }
func (b *Booking) CancellationReason() string         { return b.cancellationReason }
func (b *Booking) RequestedAt() time.Time             { return b.requestedAt }
func (b *Booking) ConfirmedAt() *time.Time            { return b.confirmedAt }
func (b *Booking) CancelledAt() *time.Time            { return b.cancelledAt }
func (b *Booking) CompletedAt() *time.Time            { return b.completedAt }
func (b *Booking) NoShowAt() *time.Time               { return b.noShowAt }
func (b *Booking) RescheduledAt() *time.Time          { return b.rescheduledAt }
func (b *Booking) PreviousBookingID() *uuid.UUID      { return b.previousBookingID }
func (b *Booking) RescheduledToBookingID() *uuid.UUID { return b.rescheduledToBookingID }
func (b *Booking) Version() int                       { return b.version }
func (b *Booking) UpdatedAt() time.Time               { return b.updatedAt }

func (b *Booking) History() []HistoryEntry {
	out := make([]HistoryEntry, len(b.history))
	copy(out, b.history)
	return out
}
