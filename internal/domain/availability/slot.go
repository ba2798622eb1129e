package availability

import (
	"time"

	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrSlotNotAvailable  = errs.Conflict("slot is not available")
	ErrSlotOtherStaff    = errs.Conflict("slot belongs to another staff member")
	ErrSlotNotHeld       = errs.Rule("slot is not held by this booking")
	ErrSlotBooked        = errs.Rule("booked slot cannot be blocked")
	ErrSlotNotBlocked    = errs.Rule("slot is not blocked")
	ErrInvalidSlotStatus = errs.NewValidation("status", "slot can only be blocked or put on break")
)

// Slot is one schedulable unit of a provider's calendar.
type Slot struct {
	id         uuid.UUID
	providerID uuid.UUID
	date       time.Time
	timeSlot   valueobject.TimeSlot
	status     SlotStatus
	// publishedStaffID is fixed at publication; staffID is the staff currently
	// assigned and only differs on allocated provider-wide slots.
	publishedStaffID *uuid.UUID
	staffID          *uuid.UUID
	bookingID        *uuid.UUID
	heldAt           *time.Time
}

func NewSlot(providerID uuid.UUID, timeSlot valueobject.TimeSlot, staffID *uuid.UUID) (*Slot, error) {
	if providerID == uuid.Nil {
		return nil, errs.NewValidation("providerId", "provider is required")
	}
	if timeSlot.IsZero() {
		return nil, errs.NewValidation("timeSlot", "time slot is required")
	}
	return &Slot{
		id:               uuid.New(),
		providerID:       providerID,
		date:             DateOf(timeSlot.Start()),
		timeSlot:         timeSlot,
		status:           SlotAvailable,
		publishedStaffID: staffID,
		staffID:          staffID,
	}, nil
}

func ReconstructSlot(
	id, providerID uuid.UUID,
	date time.Time,
	timeSlot valueobject.TimeSlot,
	status SlotStatus,
	publishedStaffID, staffID, bookingID *uuid.UUID,
	heldAt *time.Time,
) *Slot {
	return &Slot{
		id:               id,
		providerID:       providerID,
		date:             date,
		timeSlot:         timeSlot,
		status:           status,
		publishedStaffID: publishedStaffID,
		staffID:          staffID,
		bookingID:        bookingID,
		heldAt:           heldAt,
	}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *Slot) IsAvailable() bool {
	return s.status == SlotAvailable
}

// Serves reports whether staffID may be booked into this slot. Provider-wide
// slots serve everyone; a request without staff takes any slot.
func (s *Slot) Serves(staffID *uuid.UUID) bool {
	if s.publishedStaffID == nil || staffID == nil {
		return true
	}
	return *s.publishedStaffID == *staffID
}

// Allocate mirrors the persistence compare-and-swap for in-memory callers.
func (s *Slot) Allocate(bookingID uuid.UUID, staffID *uuid.UUID, now time.Time) error {
	if s.status != SlotAvailable {
		return ErrSlotNotAvailable
	}
	if !s.Serves(staffID) {
		return ErrSlotOtherStaff
	}
	s.status = SlotBooked
	s.bookingID = &bookingID
	if staffID != nil {
		s.staffID = staffID
	}
	s.heldAt = &now
	return nil
}

// Release returns the slot to the staff it was published for.
func (s *Slot) Release() {
	s.status = SlotAvailable
	s.bookingID = nil
	s.staffID = s.publishedStaffID
	s.heldAt = nil
}

func (s *Slot) ConfirmHold(bookingID uuid.UUID) error {
	if s.status != SlotBooked || s.bookingID == nil || *s.bookingID != bookingID {
		return ErrSlotNotHeld
	}
	s.heldAt = nil
	return nil
}

func (s *Slot) Block(status SlotStatus) error {
	if status != SlotBlocked && status != SlotBreak {
		return ErrInvalidSlotStatus
	}
	if s.status == SlotBooked {
		return ErrSlotBooked
	}
	s.status = status
	return nil
}

func (s *Slot) Unblock() error {
	if s.status != SlotBlocked && s.status != SlotBreak {
		return ErrSlotNotBlocked
	}
	s.status = SlotAvailable
	return nil
}

// ConflictsWith reports whether other blocks this slot for the given staff member.
// Slots without staff block the whole provider.
func (s *Slot) ConflictsWith(other *Slot, staffID *uuid.UUID) bool {
	if other.id == s.id || other.status == SlotAvailable {
		return false
	}
	if !s.timeSlot.Overlaps(other.timeSlot) {
		return false
	}
	if staffID == nil || other.staffID == nil {
		return true
	}
	return *staffID == *other.staffID
}

func (s *Slot) ID() uuid.UUID                  { return s.id }
func (s *Slot) ProviderID() uuid.UUID          { return s.providerID }
func (s *Slot) Date() time.Time                { return s.date }
func (s *Slot) TimeSlot() valueobject.TimeSlot { return s.timeSlot }
func (s *Slot) StartTime() time.Time           { return s.timeSlot.Start() }
func (s *Slot) EndTime() time.Time             { return s.timeSlot.End() }
func (s *Slot) Status() SlotStatus             { return s.status }
func (s *Slot) StaffID() *uuid.UUID            { return s.staffID }
func (s *Slot) PublishedStaffID() *uuid.UUID   { return s.publishedStaffID }
func (s *Slot) BookingID() *uuid.UUID          { return s.bookingID }
func (s *Slot) HeldAt() *time.Time             { return s.heldAt }
