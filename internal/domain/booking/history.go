package booking

import "time"

type HistoryEntry struct {
	Sequence    int
	Timestamp   time.Time
	Description string
}
