package availability

import (
	"booking-core/internal/domain/valueobject"

	"github.com/google/uuid"
)

// GenerateSlots cuts business-hour windows into consecutive slots of the given length.
// A trailing remainder shorter than length is dropped.
func GenerateSlots(providerID uuid.UUID, windows []valueobject.TimeSlot, length valueobject.Duration, staffID *uuid.UUID) ([]*Slot, error) {
	var slots []*Slot
	for _, w := range windows {
		for start := w.Start(); !start.Add(length.Std()).After(w.End()); start = start.Add(length.Std()) {
			ts, err := valueobject.NewTimeSlotFromDuration(start, length)
			if err != nil {
				return nil, err
			}
			slot, err := NewSlot(providerID, ts, staffID)
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot)
		}
	}
	return slots, nil
}
