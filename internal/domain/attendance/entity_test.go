package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkedMinutes(t *testing.T) {
	in := time.Date(2025, 3, 3, 1, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute + 59*time.Second)
	early := in.Add(-time.Hour)

	got := WorkedMinutes(&in, &out)
	require.NotNil(t, got)
	assert.Equal(t, 510, *got)

	clamped := WorkedMinutes(&in, &early)
	require.NotNil(t, clamped)
	assert.Equal(t, 0, *clamped)

	assert.Nil(t, WorkedMinutes(&in, nil))
	assert.Nil(t, WorkedMinutes(nil, &out))
}

func TestDateOf(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	ts := time.Date(2025, 3, 31, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), DateOf(ts, jakarta))
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), DateOf(ts, time.UTC))
}

func TestDayStatus_Valid(t *testing.T) {
	for _, s := range DayStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, DayStatus("late").Valid())
}

func TestSite_Location(t *testing.T) {
	assert.Equal(t, time.UTC, Site{}.Location())
	assert.Equal(t, time.UTC, Site{Timezone: "Mars/Olympus"}.Location())
}
