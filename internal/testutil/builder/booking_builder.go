//go:build unit || e2e

package builder

import (
	"time"

	"booking-core/internal/domain/booking"
	"booking-core/internal/domain/policy"
	"booking-core/internal/domain/valueobject"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	CustomerID    uuid.UUID
	ProviderID    uuid.UUID
	ServiceID     uuid.UUID
	StaffID       *uuid.UUID
	StartTime     time.Time
	Minutes       int
	Price         valueobject.Money
	Policy        policy.BookingPolicy
	CustomerNotes string
	Now           time.Time
}

// Reference instant shared by builders so tests can reason about relative times.
var BaseTime = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		CustomerID:    uuid.New(),
		ProviderID:    uuid.New(),
		ServiceID:     uuid.New(),
		StartTime:     BaseTime.Add(72 * time.Hour),
		Minutes:       60,
		Price:         valueobject.MustMoney("100", "USD"),
		Policy:        policy.DefaultBookingPolicy(),
		CustomerNotes: "first visit",
		Now:           BaseTime,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Params() booking.RequestParams {
	d, _ := valueobject.NewDuration(b.Minutes)
	return booking.RequestParams{
		CustomerID:    b.CustomerID,
		ProviderID:    b.ProviderID,
		ServiceID:     b.ServiceID,
		StaffID:       b.StaffID,
		StartTime:     b.StartTime,
		Duration:      d,
		Price:         b.Price,
		Policy:        b.Policy,
		CustomerNotes: b.CustomerNotes,
	}
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewRequest(b.Params(), b.Now)
}

// MustBuild panics on invalid input; only for fixtures known to be valid.
func (b *BookingBuilder) MustBuild() *booking.Booking {
	bk, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return bk
}

func (b *BookingBuilder) WithStaff(id uuid.UUID) *BookingBuilder {
	b.StaffID = &id
	return b
}

func (b *BookingBuilder) WithStart(start time.Time) *BookingBuilder {
	b.StartTime = start
	return b
}

func (b *BookingBuilder) WithPolicy(p policy.BookingPolicy) *BookingBuilder {
	b.Policy = p
	return b
}

func (b *BookingBuilder) WithPrice(amount string) *BookingBuilder {
	b.Price = valueobject.MustMoney(amount, "USD")
	return b
}

func (b *BookingBuilder) AsStrict() *BookingBuilder {
	b.Policy = policy.StrictBookingPolicy()
	return b
}
