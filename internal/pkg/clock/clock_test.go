//go:build unit

package clock_test

import (
	"sync"
	"testing"
	"time"

	"booking-core/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_UTCMicroseconds(t *testing.T) {
	now := clock.NewRealClock().Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(time.Microsecond))
}

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 3, 3, 9, 0, 0, 123456789, time.UTC)
	c := clock.NewMockClock(start)
	assert.Equal(t, start.Truncate(time.Microsecond), c.Now())

	c.Add(15 * time.Minute)
	assert.Equal(t, start.Add(15*time.Minute).Truncate(time.Microsecond), c.Now())

	c.Set(start)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Now()
		}()
	}
	c.Add(time.Second)
	wg.Wait()
	assert.Equal(t, start.Add(time.Second).Truncate(time.Microsecond), c.Now())
}
