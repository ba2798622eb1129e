//go:build unit || e2e

package builder

import (
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/valueobject"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	// PublishedStaffID is the owner of the slot; StaffID the assigned staff.
	PublishedStaffID *uuid.UUID
	StaffID          *uuid.UUID
	Start            time.Time
	Minutes          int
	Status           availability.SlotStatus
	BookingID        *uuid.UUID
	HeldAt           *time.Time
}

func NewSlotBuilder() *SlotBuilder {
	return &SlotBuilder{
		ID:         uuid.New(),
		ProviderID: uuid.New(),
		Start:      BaseTime.Add(72 * time.Hour),
		Minutes:    60,
		Status:     availability.SlotAvailable,
	}
}

func (s *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(s)
	return s
}

func (s *SlotBuilder) TimeSlot() valueobject.TimeSlot {
	ts, err := valueobject.NewTimeSlot(s.Start, s.Start.Add(time.Duration(s.Minutes)*time.Minute))
	if err != nil {
		panic(err)
	}
	return ts
}

func (s *SlotBuilder) BuildDomain() *availability.Slot {
	return availability.ReconstructSlot(
		s.ID, s.ProviderID, availability.DateOf(s.Start), s.TimeSlot(),
		s.Status, s.PublishedStaffID, s.StaffID, s.BookingID, s.HeldAt,
	)
}

func (s *SlotBuilder) WithProvider(id uuid.UUID) *SlotBuilder {
	s.ProviderID = id
	return s
}

// WithStaff publishes the slot for one staff member.
func (s *SlotBuilder) WithStaff(id uuid.UUID) *SlotBuilder {
	s.PublishedStaffID = &id
	s.StaffID = &id
	return s
}

// AssignedTo sets the staff of an allocated provider-wide slot.
func (s *SlotBuilder) AssignedTo(id uuid.UUID) *SlotBuilder {
	s.StaffID = &id
	return s
}

func (s *SlotBuilder) WithStart(start time.Time) *SlotBuilder {
	s.Start = start
	return s
}

func (s *SlotBuilder) WithMinutes(m int) *SlotBuilder {
	s.Minutes = m
	return s
}

// AsBooked marks the slot as held by bookingID since heldAt.
func (s *SlotBuilder) AsBooked(bookingID uuid.UUID, heldAt time.Time) *SlotBuilder {
	s.Status = availability.SlotBooked
	s.BookingID = &bookingID
	s.HeldAt = &heldAt
	return s
}

func (s *SlotBuilder) AsBlocked() *SlotBuilder {
	s.Status = availability.SlotBlocked
	return s
}
