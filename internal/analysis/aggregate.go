// Package analysis contains the pure numeric core: weekly aggregation,
// training load, marathon prediction, personal-record detection and the
// workout recommendation derived from them. Every function here is a
// side-effect-free computation over immutable inputs; callers pass the
// athlete profile and clock explicitly.
package analysis

import (
	"sort"
	"time"

	"marathon-coach/internal/store"
)

// WeeklyBucket is one ISO week's distance total. WeekStart is the Monday
// (local midnight) that begins the week.
type WeeklyBucket struct {
	WeekStart time.Time
	TotalKm   float64
}

// WeeklyDistance groups activities by the Monday starting each ISO week and
// sums distance in km. The series is sparse: weeks without activity are not
// synthesized. Activities without a date are excluded. Output is ascending
// by week.
func WeeklyDistance(activities []store.Activity) []WeeklyBucket {
	totals := make(map[time.Time]float64)

	for _, a := range activities {
		if a.StartDate == nil {
			continue
		}
		week := WeekStart(*a.StartDate)
		totals[week] += a.Distance / 1000
	}

	buckets := make([]WeeklyBucket, 0, len(totals))
	for week, km := range totals {
		buckets = append(buckets, WeeklyBucket{WeekStart: week, TotalKm: km})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].WeekStart.Before(buckets[j].WeekStart)
	})

	return buckets
}

// WeekStart returns the Monday 00:00 (in t's location) of t's ISO week.
func WeekStart(t time.Time) time.Time {
	// Weekday() has Sunday = 0; shift so Monday = 0.
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// LastNDaysDistance sums distance in km for activities dated within
// [now - n days, now], lower bound inclusive. The window uses wall-clock
// day arithmetic, not calendar truncation: "last 7 days" means 7*24h.
// Callers must pass now explicitly; results are deterministic for a fixed
// clock.
func LastNDaysDistance(activities []store.Activity, n int, now time.Time) float64 {
	cutoff := now.Add(-time.Duration(n) * 24 * time.Hour)

	var km float64
	for _, a := range activities {
		if a.StartDate == nil {
			continue
		}
		d := *a.StartDate
		if d.Before(cutoff) || d.After(now) {
			continue
		}
		km += a.Distance / 1000
	}
	return km
}
