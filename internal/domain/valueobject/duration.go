package valueobject

import (
	"time"

	"booking-core/internal/pkg/errs"
)

type Duration struct {
	minutes int
}

func NewDuration(minutes int) (Duration, error) {
	if minutes <= 0 {
		return Duration{}, errs.NewValidation("duration", "duration must be a positive number of minutes")
	}
	return Duration{minutes: minutes}, nil
}

func (d Duration) Minutes() int { return d.minutes }

func (d Duration) Std() time.Duration {
	return time.Duration(d.minutes) * time.Minute
}
