//go:build unit

package availability_test

import (
	"testing"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/testutil/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daySlots(day time.Time, available, booked, blocked int) []*availability.Slot {
	var out []*availability.Slot
	start := day.Add(9 * time.Hour)
	next := func() time.Time {
		s := start
		start = start.Add(time.Hour)
		return s
	}
	for range available {
		out = append(out, builder.NewSlotBuilder().WithStart(next()).BuildDomain())
	}
	for range booked {
		out = append(out, builder.NewSlotBuilder().WithStart(next()).AsBooked(uuid.New(), day).BuildDomain())
	}
	for range blocked {
		out = append(out, builder.NewSlotBuilder().WithStart(next()).AsBlocked().BuildDomain())
	}
	return out
}

func TestComputeHeatmap_DayBuckets(t *testing.T) {
	d0 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	day := func(i int) time.Time { return d0.AddDate(0, 0, i) }

	var slots []*availability.Slot
	slots = append(slots, daySlots(day(0), 0, 4, 0)...) // fully booked
	slots = append(slots, daySlots(day(1), 1, 3, 0)...) // 25%
	slots = append(slots, daySlots(day(2), 3, 7, 0)...) // 30% boundary
	slots = append(slots, daySlots(day(3), 7, 3, 0)...) // 70% boundary
	slots = append(slots, daySlots(day(4), 8, 2, 0)...) // 80%
	slots = append(slots, daySlots(day(5), 0, 0, 3)...) // blocked all day
	// day(6) has no slots

	hm := availability.ComputeHeatmap(day(0), day(6), slots)
	require.Len(t, hm.Days, 7)

	want := []availability.DayStatus{
		availability.DayFullyBooked,
		availability.DayHighDemand,
		availability.DayModerate,
		availability.DayModerate,
		availability.DayMostlyAvailable,
		availability.DayClosed,
		availability.DayClosed,
	}
	got := make([]availability.DayStatus, 0, len(hm.Days))
	for _, d := range hm.Days {
		got = append(got, d.Status)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("day statuses mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, day(6), hm.Days[6].Date)
	assert.Equal(t, 0, hm.Days[6].Total)
	assert.Equal(t, 3, hm.Days[5].Blocked)
}

func TestComputeHeatmap_OverallPercentages(t *testing.T) {
	d0 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	slots := daySlots(d0, 1, 1, 1)

	hm := availability.ComputeHeatmap(time.Time{}, time.Time{}, slots)

	assert.Equal(t, 33.33, hm.AvailablePct)
	assert.Equal(t, 33.33, hm.BookedPct)
	assert.Equal(t, 33.33, hm.BlockedPct)
	require.Len(t, hm.Days, 1)
	assert.Equal(t, 33.33, hm.Days[0].AvailablePct)
	assert.Equal(t, availability.DayModerate, hm.Days[0].Status)
}

func TestComputeHeatmap_Empty(t *testing.T) {
	hm := availability.ComputeHeatmap(time.Time{}, time.Time{}, nil)
	assert.Zero(t, hm.AvailablePct)
	assert.Empty(t, hm.Days)
}
