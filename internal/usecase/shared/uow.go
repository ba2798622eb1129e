package shared

import (
	"context"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/booking"

	"github.com/google/uuid"
)

//go:generate mockgen -source=uow.go -destination=../../testutil/mock/shared/uow.go -package=sharedmock

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for consistent multi-table reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Slots() SlotRepository
	Bookings() BookingRepository
}

// SlotRepository owns the allocation primitives. Every state change is a
// compare-and-swap in SQL; callers never read-modify-write a slot row.
type SlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*availability.Slot, error)
	// FindSlot returns the slot at exactly [start, end) that staffID may take.
	FindSlot(ctx context.Context, providerID uuid.UUID, date, start, end time.Time, staffID *uuid.UUID) (*availability.Slot, error)
	// FindOverlapping returns non-available slots of the provider overlapping [start, end).
	FindOverlapping(ctx context.Context, providerID uuid.UUID, start, end time.Time, excludeSlotID *uuid.UUID) ([]*availability.Slot, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*availability.Slot, error)
	ListRange(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*availability.Slot, error)
	FindExpiredHolds(ctx context.Context, cutoff time.Time, limit uint64) ([]*availability.Slot, error)

	// LockProvider holds the provider's allocation lock until the transaction ends.
	LockProvider(ctx context.Context, providerID uuid.UUID) error
	Insert(ctx context.Context, slots []*availability.Slot) error
	Allocate(ctx context.Context, slotID, bookingID uuid.UUID, staffID *uuid.UUID, now time.Time) error
	ConfirmHold(ctx context.Context, slotID, bookingID uuid.UUID) error
	Release(ctx context.Context, slotID, bookingID uuid.UUID) error
	// ReleaseExpired frees the slot only while it is still held by bookingID since before cutoff.
	ReleaseExpired(ctx context.Context, slotID, bookingID uuid.UUID, cutoff time.Time) (bool, error)
	UpdateStatus(ctx context.Context, slotID uuid.UUID, from, to availability.SlotStatus) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// Update persists b if its version still matches and bumps the version.
	Update(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit uint64) ([]*booking.Booking, error)
}
