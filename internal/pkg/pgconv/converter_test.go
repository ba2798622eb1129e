//go:build unit

package pgconv_test

import (
	"testing"
	"time"

	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDPtrRoundTrip(t *testing.T) {
	assert.Nil(t, pgconv.UUIDPtrFromPgtype(pgconv.UUIDPtrToPgtype(nil)))

	id := uuid.New()
	got := pgconv.UUIDPtrFromPgtype(pgconv.UUIDPtrToPgtype(&id))
	require.NotNil(t, got)
	assert.Equal(t, id, *got)
}

func TestTimePtrRoundTrip(t *testing.T) {
	assert.Nil(t, pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(nil)))

	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	got := pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(&now))
	require.NotNil(t, got)
	assert.True(t, now.Equal(*got))
}

func TestDateToPgtype_DropsClock(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	d := pgconv.DateToPgtype(time.Date(2025, 3, 3, 23, 30, 0, 0, tokyo))

	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), d.Time)
}
