package queries

import (
	"context"
	"time"

	"booking-core/internal/domain/booking"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

var ErrBookingNotFound = errs.NotFound("booking view not found")

// Read models (DTO for read side)
type BookingView struct {
	ID                     uuid.UUID     `json:"id"`
	CustomerID             uuid.UUID     `json:"customer_id"`
	ProviderID             uuid.UUID     `json:"provider_id"`
	ServiceID              uuid.UUID     `json:"service_id"`
	StaffID                *uuid.UUID    `json:"staff_id,omitempty"`
	StartTime              time.Time     `json:"start_time" copier:"-"`
	EndTime                time.Time     `json:"end_time" copier:"-"`
	DurationMinutes        int           `json:"duration_minutes" copier:"-"`
	Status                 string        `json:"status"`
	TotalPrice             string        `json:"total_price"`
	Currency               string        `json:"currency" copier:"-"`
	Payment                PaymentView   `json:"payment" copier:"-"`
	RemainingPayment       string        `json:"remaining_payment" copier:"-"`
	CustomerNotes          string        `json:"customer_notes,omitempty"`
	StaffNotes             string        `json:"staff_notes,omitempty"`
	CancellationReason     string        `json:"cancellation_reason,omitempty"`
	RequestedAt            time.Time     `json:"requested_at"`
	ConfirmedAt            *time.Time    `json:"confirmed_at,omitempty"`
	CancelledAt            *time.Time    `json:"cancelled_at,omitempty"`
	CompletedAt            *time.Time    `json:"completed_at,omitempty"`
	NoShowAt               *time.Time    `json:"no_show_at,omitempty"`
	RescheduledAt          *time.Time    `json:"rescheduled_at,omitempty"`
	PreviousBookingID      *uuid.UUID    `json:"previous_booking_id,omitempty"`
	RescheduledToBookingID *uuid.UUID    `json:"rescheduled_to_booking_id,omitempty"`
	History                []HistoryView `json:"history"`
	IsUpcoming             bool          `json:"is_upcoming" copier:"-"`
	Version                int           `json:"version"`
	UpdatedAt              time.Time     `json:"updated_at"`
}

type PaymentView struct {
	Status          string `json:"status"`
	DepositAmount   string `json:"deposit_amount"`
	PaidAmount      string `json:"paid_amount"`
	RefundedAmount  string `json:"refunded_amount"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	RefundID        string `json:"refund_id,omitempty"`
}

type HistoryView struct {
	Sequence    int       `json:"sequence"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingQueries(uow shared.UnitOfWork, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{uow: uow, clock: clk}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	var b *booking.Booking
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			if errs.IsNotFound(err) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return err
		}
		b = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToBookingView(b, q.clock.Now())
}

func (q *bookingQueriesImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*BookingView, error) {
	var list []*booking.Booking
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		list, err = tx.Bookings().ListByCustomer(ctx, customerID, uint64(ValidateLimit(limit)))
		return err
	})
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	views := make([]*BookingView, 0, len(list))
	for _, b := range list {
		v, err := ToBookingView(b, now)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

var moneyToString = copier.TypeConverter{
	SrcType: valueobject.Money{},
	DstType: copier.String,
	Fn: func(src interface{}) (interface{}, error) {
		return src.(valueobject.Money).Amount().StringFixed(2), nil
	},
}

func ToBookingView(b *booking.Booking, now time.Time) (*BookingView, error) {
	snap := b.Snapshot()
	var v BookingView
	if err := copier.CopyWithOption(&v, &snap, copier.Option{
		Converters: []copier.TypeConverter{moneyToString},
	}); err != nil {
		return nil, errs.Wrap(err, "failed to map booking view")
	}

	v.StartTime = snap.TimeSlot.Start()
	v.EndTime = snap.TimeSlot.End()
	v.DurationMinutes = snap.TimeSlot.Duration().Minutes()
	v.Currency = snap.TotalPrice.Currency()
	v.RemainingPayment = b.RemainingPayment().Amount().StringFixed(2)
	v.IsUpcoming = b.IsUpcoming(now)
	v.Payment = PaymentView{
		Status:          snap.Payment.Status().String(),
		DepositAmount:   snap.Payment.DepositAmount().Amount().StringFixed(2),
		PaidAmount:      snap.Payment.PaidAmount().Amount().StringFixed(2),
		RefundedAmount:  snap.Payment.RefundedAmount().Amount().StringFixed(2),
		PaymentIntentID: snap.Payment.PaymentIntentID(),
		RefundID:        snap.Payment.RefundID(),
	}
	if v.History == nil {
		v.History = []HistoryView{}
	}
	return &v, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
