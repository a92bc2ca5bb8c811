package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeHourSeries(start time.Time, n int) []ForecastEntry {
	out := make([]ForecastEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ForecastEntry{
			Timestamp:   start.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: float64(i),
		})
	}
	return out
}

func TestGroupDaily_EightDaysYieldsFiveFirstReadings(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	series := threeHourSeries(start, 8*SamplesPerDay)

	days := GroupDaily(series, time.UTC, MaxForecastDays)

	require.Len(t, days, 5)
	for i, d := range days {
		assert.Equal(t, start.AddDate(0, 0, i), d.Timestamp)
		assert.Equal(t, float64(i*SamplesPerDay), d.Temperature)
	}
}

func TestGroupDaily_FirstOccurrenceWinsWhenSeriesStartsMidDay(t *testing.T) {
	start := time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC)
	series := threeHourSeries(start, 10)

	days := GroupDaily(series, time.UTC, MaxForecastDays)

	require.Len(t, days, 3)
	assert.Equal(t, start, days[0].Timestamp)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), days[1].Timestamp)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), days[2].Timestamp)
}

func TestGroupDaily_OrdersChronologically(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	series := []ForecastEntry{
		{Timestamp: start.Add(27 * time.Hour), Temperature: 3},
		{Timestamp: start.Add(24 * time.Hour), Temperature: 2},
		{Timestamp: start, Temperature: 1},
	}

	days := GroupDaily(series, time.UTC, 5)

	require.Len(t, days, 2)
	assert.Equal(t, 1.0, days[0].Temperature)
	assert.Equal(t, 2.0, days[1].Temperature)
}

func TestGroupDaily_UsesCityLocalCalendar(t *testing.T) {
	// 22:00 UTC and 23:00 UTC are already the next day at UTC+3.
	tz := time.FixedZone("", 3*3600)
	series := []ForecastEntry{
		{Timestamp: time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC), Temperature: 1},
		{Timestamp: time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC), Temperature: 2},
		{Timestamp: time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC), Temperature: 3},
	}

	days := GroupDaily(series, tz, 5)

	require.Len(t, days, 2)
	assert.Equal(t, 2.0, days[1].Temperature)
}

func TestGroupDaily_ClampsMaxDays(t *testing.T) {
	series := threeHourSeries(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 8*SamplesPerDay)
	assert.Len(t, GroupDaily(series, nil, 0), MaxForecastDays)
	assert.Len(t, GroupDaily(series, nil, 9), MaxForecastDays)
	assert.Len(t, GroupDaily(series, nil, 2), 2)
	assert.Empty(t, GroupDaily(nil, nil, 5))
}
