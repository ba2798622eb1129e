package booking

import (
	"time"

	"booking-core/internal/domain/policy"
	"booking-core/internal/domain/valueobject"

	"github.com/google/uuid"
)

// Snapshot is the flat persisted form of a Booking.
type Snapshot struct {
	ID                     uuid.UUID
	CustomerID             uuid.UUID
	ProviderID             uuid.UUID
	ServiceID              uuid.UUID
	StaffID                *uuid.UUID
	TimeSlot               valueobject.TimeSlot
	TotalPrice             valueobject.Money
	Policy                 policy.BookingPolicy
	Payment                PaymentInfo
	Status                 Status
	CustomerNotes          string
	StaffNotes             string
	CancellationReason     string
	RequestedAt            time.Time
	ConfirmedAt            *time.Time
	CancelledAt            *time.Time
	CompletedAt            *time.Time
	NoShowAt               *time.Time
	RescheduledAt          *time.Time
	History                []HistoryEntry
	PreviousBookingID      *uuid.UUID
	RescheduledToBookingID *uuid.UUID
	Version                int
	UpdatedAt              time.Time
}

// Reconstruct rebuilds a Booking from storage without re-running validation.
func Reconstruct(s Snapshot) *Booking {
	history := make([]HistoryEntry, len(s.History))
	copy(history, s.History)
	return &Booking{
		id:                     s.ID,
		customerID:             s.CustomerID,
		providerID:             s.ProviderID,
		serviceID:              s.ServiceID,
		staffID:                s.StaffID,
		timeSlot:               s.TimeSlot,
		totalPrice:             s.TotalPrice,
		policy:                 s.Policy,
		payment:                s.Payment,
		status:                 s.Status,
		customerNotes:          s.CustomerNotes,
		staffNotes:             s.StaffNotes,
		cancellationReason:     s.CancellationReason,
		requestedAt:            s.RequestedAt,
		confirmedAt:            s.ConfirmedAt,
		cancelledAt:            s.CancelledAt,
		completedAt:            s.CompletedAt,
		noShowAt:               s.NoShowAt,
		rescheduledAt:          s.RescheduledAt,
		history:                history,
		previousBookingID:      s.PreviousBookingID,
		rescheduledToBookingID: s.RescheduledToBookingID,
		version:                s.Version,
		updatedAt:              s.UpdatedAt,
	}
}

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:                     b.id,
		CustomerID:             b.customerID,
		ProviderID:             b.providerID,
		ServiceID:              b.serviceID,
		StaffID:                b.staffID,
		TimeSlot:               b.timeSlot,
		TotalPrice:             b.totalPrice,
		Policy:                 b.policy,
		Payment:                b.payment,
		Status:                 b.status,
		CustomerNotes:          b.customerNotes,
		StaffNotes:             b.staffNotes,
		CancellationReason:     b.cancellationReason,
		RequestedAt:            b.requestedAt,
		ConfirmedAt:            b.confirmedAt,
		CancelledAt:            b.cancelledAt,
		CompletedAt:            b.completedAt,
		NoShowAt:               b.noShowAt,
		RescheduledAt:          b.rescheduledAt,
		History:                b.History(),
		PreviousBookingID:      b.previousBookingID,
		RescheduledToBookingID: b.rescheduledToBookingID,
		Version:                b.version,
		UpdatedAt:              b.updatedAt,
	}
}

// MarkPersisted bumps the optimistic-lock version after a successful save.
func (b *Booking) MarkPersisted(version int) {
	b.version = version
}
