package valueobject

import (
	"time"

	"booking-core/internal/pkg/errs"
)

// TimeSlot is a half-open interval [start, end).
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, errs.NewValidation("end", "start time must be before end time")
	}
	return TimeSlot{start: start, end: end}, nil
}

func NewTimeSlotFromDuration(start time.Time, d Duration) (TimeSlot, error) {
	return NewTimeSlot(start, start.Add(d.Std()))
}

func (ts TimeSlot) Start() time.Time { return ts.start }
func (ts TimeSlot) End() time.Time   { return ts.end }

func (ts TimeSlot) Duration() Duration {
	return Duration{minutes: int(ts.end.Sub(ts.start) / time.Minute)}
}

func (ts TimeSlot) IsZero() bool {
	return ts.start.IsZero() && ts.end.IsZero()
}

func (ts TimeSlot) Contains(t time.Time) bool {
	return !t.Before(ts.start) && t.Before(ts.end)
}

func (ts TimeSlot) ContainsSlot(other TimeSlot) bool {
	return !other.start.Before(ts.start) && !other.end.After(ts.end)
}

// Overlaps uses strict comparison, so touching boundaries do not overlap.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && ts.end.After(other.start)
}

func (ts TimeSlot) Overlap(other TimeSlot) (TimeSlot, bool) {
	if !ts.Overlaps(other) {
		return TimeSlot{}, false
	}
	start := ts.start
	if other.start.After(start) {
		start = other.start
	}
	end := ts.end
	if other.end.Before(end) {
		end = other.end
	}
	return TimeSlot{start: start, end: end}, true
}

func (ts TimeSlot) Equal(other TimeSlot) bool {
	return ts.start.Equal(other.start) && ts.end.Equal(other.end)
}
