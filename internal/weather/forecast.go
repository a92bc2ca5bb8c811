package weather

import (
	"sort"
	"time"
)

// MaxForecastDays is the number of daily entries the free-tier forecast covers.
const MaxForecastDays = 5

// SamplesPerDay is the number of 3-hour readings in a day.
const SamplesPerDay = 8

// GroupDaily reduces a time series to one entry per calendar day in loc,
// keeping the first chronological reading of each day and stopping after
// maxDays distinct days.
func GroupDaily(readings []ForecastEntry, loc *time.Location, maxDays int) []ForecastEntry {
	if maxDays <= 0 || maxDays > MaxForecastDays {
		maxDays = MaxForecastDays
	}
	if loc == nil {
		loc = time.UTC
	}

	sorted := make([]ForecastEntry, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	seen := make(map[string]struct{}, maxDays)
	days := make([]ForecastEntry, 0, maxDays)
	for _, r := range sorted {
		key := r.Timestamp.In(loc).Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, r)
		if len(days) == maxDays {
			break
		}
	}
	return days
}
