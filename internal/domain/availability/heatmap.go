package availability

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type DayHeatmap struct {
	Date         time.Time `json:"date"`
	Total        int       `json:"total"`
	Available    int       `json:"available"`
	Booked       int       `json:"booked"`
	Blocked      int       `json:"blocked"`
	AvailablePct float64   `json:"available_pct"`
	Status       DayStatus `json:"status"`
}

type Heatmap struct {
	AvailablePct float64      `json:"available_pct"`
	BookedPct    float64      `json:"booked_pct"`
	BlockedPct   float64      `json:"blocked_pct"`
	Days         []DayHeatmap `json:"days"`
}

type counts struct {
	total, available, booked, blocked int
}

func (c *counts) add(status SlotStatus) {
	c.total++
	switch status {
	case SlotAvailable:
		c.available++
	case SlotBooked:
		c.booked++
	case SlotBlocked, SlotBreak:
		c.blocked++
	}
}

// ComputeHeatmap aggregates slots into overall percentages and one entry per
// calendar day in [from, to]. Break slots count as blocked. Zero from/to limits the
// days to those that have slots.
func ComputeHeatmap(from, to time.Time, slots []*Slot) Heatmap {
	var overall counts
	perDay := make(map[string]*counts)
	dates := make(map[string]time.Time)
	for _, s := range slots {
		overall.add(s.Status())
		day := DateOf(s.StartTime())
		key := day.Format(time.DateOnly)
		c, ok := perDay[key]
		if !ok {
			c = &counts{}
			perDay[key] = c
			dates[key] = day
		}
		c.add(s.Status())
	}

	var days []time.Time
	if from.IsZero() || to.IsZero() {
		for _, d := range dates {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	} else {
		for d := DateOf(from); !d.After(DateOf(to)); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
	}

	hm := Heatmap{
		AvailablePct: percent(overall.available, overall.total),
		BookedPct:    percent(overall.booked, overall.total),
		BlockedPct:   percent(overall.blocked, overall.total),
		Days:         make([]DayHeatmap, 0, len(days)),
	}
	for _, d := range days {
		c := perDay[d.Format(time.DateOnly)]
		if c == nil {
			c = &counts{}
		}
		pct := percent(c.available, c.total)
		hm.Days = append(hm.Days, DayHeatmap{
			Date:         d,
			Total:        c.total,
			Available:    c.available,
			Booked:       c.booked,
			Blocked:      c.blocked,
			AvailablePct: pct,
			Status:       classifyDay(*c, pct),
		})
	}
	return hm
}

func classifyDay(c counts, availablePct float64) DayStatus {
	if c.total == 0 || c.blocked == c.total {
		return DayClosed
	}
	switch {
	case c.available == 0:
		return DayFullyBooked
	case availablePct < 30:
		return DayHighDemand
	case availablePct <= 70:
		return DayModerate
	default:
		return DayMostlyAvailable
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	v, _ := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		Float64()
	return v
}
