package period

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	valid := map[string]Period{
		"2025-03": {Year: 2025, Month: time.March},
		"2024-12": {Year: 2024, Month: time.December},
	}
	for in, want := range valid {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.Equal(t, in, got.String())
	}

	invalid := []string{"", "2025-3", "2025-13", "25-03", "2025/03", "2025-03-01"}
	for _, in := range invalid {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidPeriod, in)
	}
}

func TestPeriod_Bounds(t *testing.T) {
	p := New(2024, time.February)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.End())
	assert.Equal(t, 29, p.Days())
	assert.True(t, p.Contains(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriod_JSON(t *testing.T) {
	var body struct {
		Period Period `json:"period"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"period":"2025-03"}`), &body))
	assert.Equal(t, New(2025, time.March), body.Period)

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"period":"2025-03"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"period":"March"}`), &body))
}

func TestPeriod_Scan(t *testing.T) {
	var p Period
	require.NoError(t, p.Scan("2025-03"))
	assert.Equal(t, New(2025, time.March), p)

	require.NoError(t, p.Scan([]byte("2025-04")))
	assert.Equal(t, New(2025, time.April), p)

	assert.Error(t, p.Scan(42))
}

func TestCalendar_WorkingDays(t *testing.T) {
	cal := DefaultCalendar()

	// March 2025 has 21 weekdays.
	assert.Equal(t, 21, cal.WorkingDays(New(2025, time.March)))

	cal.Holidays["2025-03-31"] = true
	cal.Holidays["2025-03-29"] = true // Saturday, no effect
	assert.Equal(t, 20, cal.WorkingDays(New(2025, time.March)))

	sixDay := DefaultCalendar()
	sixDay.Workdays[time.Saturday] = true
	assert.Equal(t, 26, sixDay.WorkingDays(New(2025, time.March)))
}
