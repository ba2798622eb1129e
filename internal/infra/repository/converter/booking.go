package converter

import (
	"encoding/json"
	"time"

	"booking-core/internal/domain/booking"
	"booking-core/internal/domain/policy"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var ErrCorruptBookingRow = errs.New("booking row cannot be decoded")

// BookingColumns is the select list matching ScanBooking. Money columns are read as
// text so no precision is lost on the way to decimal.
var BookingColumns = []string{
	"id", "customer_id", "provider_id", "service_id", "staff_id",
	"start_time", "end_time", "total_price::text", "currency", "policy",
	"status", "payment_status", "deposit_amount::text", "paid_amount::text", "refunded_amount::text",
	"payment_intent_id", "refund_id", "customer_notes", "staff_notes", "cancellation_reason",
	"requested_at", "confirmed_at", "cancelled_at", "completed_at", "no_show_at", "rescheduled_at",
	"previous_booking_id", "rescheduled_to_booking_id", "version", "updated_at",
}

type bookingRow struct {
	ID, CustomerID, ProviderID, ServiceID uuid.UUID
	StaffID                               pgtype.UUID
	StartTime, EndTime                    time.Time
	TotalPrice, Currency                  string
	Policy                                []byte
	Status, PaymentStatus                 string
	Deposit, Paid, Refunded               string
	PaymentIntentID, RefundID             string
	CustomerNotes, StaffNotes, CancelNote string
	RequestedAt                           time.Time
	ConfirmedAt, CancelledAt, CompletedAt pgtype.Timestamptz
	NoShowAt, RescheduledAt               pgtype.Timestamptz
	PreviousID, RescheduledToID           pgtype.UUID
	Version                               int
	UpdatedAt                             time.Time
}

// ScanBooking reads one row selected with BookingColumns. History is attached by the caller.
func ScanBooking(row pgx.Row) (booking.Snapshot, error) {
	var r bookingRow
	if err := row.Scan(
		&r.ID, &r.CustomerID, &r.ProviderID, &r.ServiceID, &r.StaffID,
		&r.StartTime, &r.EndTime, &r.TotalPrice, &r.Currency, &r.Policy,
		&r.Status, &r.PaymentStatus, &r.Deposit, &r.Paid, &r.Refunded,
		&r.PaymentIntentID, &r.RefundID, &r.CustomerNotes, &r.StaffNotes, &r.CancelNote,
		&r.RequestedAt, &r.ConfirmedAt, &r.CancelledAt, &r.CompletedAt, &r.NoShowAt, &r.RescheduledAt,
		&r.PreviousID, &r.RescheduledToID, &r.Version, &r.UpdatedAt,
	); err != nil {
		return booking.Snapshot{}, err
	}
	return r.toSnapshot()
}

func (r bookingRow) toSnapshot() (booking.Snapshot, error) {
	ts, err := valueobject.NewTimeSlot(r.StartTime, r.EndTime)
	if err != nil {
		return booking.Snapshot{}, errs.Mark(err, ErrCorruptBookingRow)
	}

	money := func(s string) (valueobject.Money, error) {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return valueobject.Money{}, errs.Mark(err, ErrCorruptBookingRow)
		}
		return valueobject.NewMoney(d, r.Currency)
	}
	total, err := money(r.TotalPrice)
	if err != nil {
		return booking.Snapshot{}, err
	}
	deposit, err := money(r.Deposit)
	if err != nil {
		return booking.Snapshot{}, err
	}
	paid, err := money(r.Paid)
	if err != nil {
		return booking.Snapshot{}, err
	}
	refunded, err := money(r.Refunded)
	if err != nil {
		return booking.Snapshot{}, err
	}

	pol, err := DecodePolicy(r.Policy)
	if err != nil {
		return booking.Snapshot{}, err
	}

	status := booking.Status(r.Status)
	payStatus := booking.PaymentStatus(r.PaymentStatus)
	if !status.IsValid() || !payStatus.IsValid() {
		return booking.Snapshot{}, errs.Wrapf(ErrCorruptBookingRow, "status %q payment %q", r.Status, r.PaymentStatus)
	}

	return booking.Snapshot{
		ID:                     r.ID,
		CustomerID:             r.CustomerID,
		ProviderID:             r.ProviderID,
		ServiceID:              r.ServiceID,
		StaffID:                pgconv.UUIDPtrFromPgtype(r.StaffID),
		TimeSlot:               ts,
		TotalPrice:             total,
		Policy:                 pol,
		Payment:                booking.ReconstructPaymentInfo(payStatus, deposit, paid, refunded, r.PaymentIntentID, r.RefundID),
		Status:                 status,
		CustomerNotes:          r.CustomerNotes,
		StaffNotes:             r.StaffNotes,
		CancellationReason:     r.CancelNote,
		RequestedAt:            r.RequestedAt,
		ConfirmedAt:            pgconv.TimePtrFromPgtype(r.ConfirmedAt),
		CancelledAt:            pgconv.TimePtrFromPgtype(r.CancelledAt),
		CompletedAt:            pgconv.TimePtrFromPgtype(r.CompletedAt),
		NoShowAt:               pgconv.TimePtrFromPgtype(r.NoShowAt),
		RescheduledAt:          pgconv.TimePtrFromPgtype(r.RescheduledAt),
		PreviousBookingID:      pgconv.UUIDPtrFromPgtype(r.PreviousID),
		RescheduledToBookingID: pgconv.UUIDPtrFromPgtype(r.RescheduledToID),
		Version:                r.Version,
		UpdatedAt:              r.UpdatedAt,
	}, nil
}

func EncodePolicy(p policy.BookingPolicy) ([]byte, error) {
	return json.Marshal(p.Params())
}

func DecodePolicy(raw []byte) (policy.BookingPolicy, error) {
	var params policy.BookingPolicyParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return policy.BookingPolicy{}, errs.Mark(err, ErrCorruptBookingRow)
	}
	return policy.ReconstructBookingPolicy(params), nil
}

// BookingValues returns the mutable columns of s keyed by column name.
func BookingValues(s booking.Snapshot) (map[string]any, error) {
	pol, err := EncodePolicy(s.Policy)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"customer_id":               s.CustomerID,
		"provider_id":               s.ProviderID,
		"service_id":                s.ServiceID,
		"staff_id":                  pgconv.UUIDPtrToPgtype(s.StaffID),
		"start_time":                s.TimeSlot.Start(),
		"end_time":                  s.TimeSlot.End(),
		"total_price":               s.TotalPrice.Amount().String(),
		"currency":                  s.TotalPrice.Currency(),
		"policy":                    pol,
		"status":                    string(s.Status),
		"payment_status":            string(s.Payment.Status()),
		"deposit_amount":            s.Payment.DepositAmount().Amount().String(),
		"paid_amount":               s.Payment.PaidAmount().Amount().String(),
		"refunded_amount":           s.Payment.RefundedAmount().Amount().String(),
		"payment_intent_id":         s.Payment.PaymentIntentID(),
		"refund_id":                 s.Payment.RefundID(),
		"customer_notes":            s.CustomerNotes,
		"staff_notes":               s.StaffNotes,
		"cancellation_reason":       s.CancellationReason,
		"requested_at":              s.RequestedAt,
		"confirmed_at":              pgconv.TimePtrToPgtype(s.ConfirmedAt),
		"cancelled_at":              pgconv.TimePtrToPgtype(s.CancelledAt),
		"completed_at":              pgconv.TimePtrToPgtype(s.CompletedAt),
		"no_show_at":                pgconv.TimePtrToPgtype(s.NoShowAt),
		"rescheduled_at":            pgconv.TimePtrToPgtype(s.RescheduledAt),
		"previous_booking_id":       pgconv.UUIDPtrToPgtype(s.PreviousBookingID),
		"rescheduled_to_booking_id": pgconv.UUIDPtrToPgtype(s.RescheduledToBookingID),
		"updated_at":                s.UpdatedAt,
	}, nil
}
