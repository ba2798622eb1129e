package availability

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotBlocked   SlotStatus = "blocked"
	SlotBreak     SlotStatus = "break"
)

func (s SlotStatus) String() string {
	return string(s)
}

func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotAvailable, SlotBooked, SlotBlocked, SlotBreak:
		return true
	default:
		return false
	}
}

type DayStatus string

const (
	DayFullyBooked     DayStatus = "fully_booked"
	DayHighDemand      DayStatus = "high_demand"
	DayModerate        DayStatus = "moderate"
	DayMostlyAvailable DayStatus = "mostly_available"
	DayClosed          DayStatus = "closed"
)
