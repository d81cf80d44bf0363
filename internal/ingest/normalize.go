// Package ingest converts raw provider records (Strava API pages, GPX and
// FIT files) into the canonical activity shape the analysis packages work
// on. It is the only place that knows provider field names; everything
// downstream sees meters and seconds.
package ingest

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"marathon-coach/internal/store"
)

// RawActivity is a provider-agnostic intermediate record. Adapters in the
// strava, gpx and fitfile packages fill it; Normalize turns it into a
// canonical store.Activity or drops it.
type RawActivity struct {
	ProviderID    string // provider-native ID, empty for file imports
	Source        string // "strava", "gpx", "fit"
	Name          string
	SportType     string // empty when the source carries no type
	StartDate     *time.Time
	Distance      float64 // meters
	Duration      float64 // seconds
	AvgHeartrate  *float64
	MaxHeartrate  *float64
	ElevationGain *float64
	TrackPoints   []store.TrackPoint
}

// NormalizeStats counts what Normalize dropped, for diagnostics.
// Correctness never depends on it.
type NormalizeStats struct {
	Seen    int
	Kept    int
	Dropped int
}

// Normalize maps raw records onto the canonical shape. Records missing both
// distance and duration, or with non-finite core fields, are dropped rather
// than failing the batch: partial data is expected from real devices.
func Normalize(raws []RawActivity) ([]store.Activity, NormalizeStats) {
	stats := NormalizeStats{Seen: len(raws)}
	activities := make([]store.Activity, 0, len(raws))

	for _, raw := range raws {
		a, ok := normalizeOne(raw)
		if !ok {
			stats.Dropped++
			continue
		}
		activities = append(activities, a)
	}

	stats.Kept = len(activities)
	return activities, stats
}

func normalizeOne(raw RawActivity) (store.Activity, bool) {
	if !isFinite(raw.Distance) || !isFinite(raw.Duration) {
		return store.Activity{}, false
	}
	if raw.Distance < 0 || raw.Duration < 0 {
		return store.Activity{}, false
	}
	if raw.Distance == 0 && raw.Duration == 0 {
		return store.Activity{}, false
	}

	a := store.Activity{
		ID:            activityID(raw),
		Name:          raw.Name,
		Source:        raw.Source,
		SportType:     raw.SportType,
		StartDate:     raw.StartDate,
		Distance:      raw.Distance,
		Duration:      raw.Duration,
		AvgHeartrate:  positiveOrNil(raw.AvgHeartrate),
		MaxHeartrate:  positiveOrNil(raw.MaxHeartrate),
		ElevationGain: nonNegativeOrNil(raw.ElevationGain),
		HasTrack:      len(raw.TrackPoints) > 0,
	}
	if a.Name == "" {
		a.Name = "Untitled activity"
	}
	return a, true
}

func activityID(raw RawActivity) string {
	if raw.ProviderID != "" {
		return fmt.Sprintf("%s:%s", raw.Source, raw.ProviderID)
	}
	return uuid.NewString()
}

// Deduplicate drops activities whose fingerprint (date, rounded distance,
// rounded duration) was already seen, keeping the first occurrence. This
// makes repeated syncs against the same upstream window idempotent.
func Deduplicate(activities []store.Activity) []store.Activity {
	seen := make(map[string]struct{}, len(activities))
	out := make([]store.Activity, 0, len(activities))

	for _, a := range activities {
		fp := fingerprint(a)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, a)
	}

	return out
}

func fingerprint(a store.Activity) string {
	date := ""
	if a.StartDate != nil {
		date = a.StartDate.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s|%.0f|%.0f", date, a.Distance, a.Duration)
}

// Running-heuristic bounds. A provisional substitute for a missing sport
// type: it will misclassify some fast hikes and slow rides.
const (
	minRunDistance  = 1000.0  // meters
	maxRunDistance  = 50000.0 // meters
	minRunPaceSecKm = 180.0   // 3:00 min/km
	maxRunPaceSecKm = 480.0   // 8:00 min/km
)

// LooksLikeRun reports whether the activity's distance and pace fall inside
// the running heuristic window.
func LooksLikeRun(a store.Activity) bool {
	if a.Distance < minRunDistance || a.Distance > maxRunDistance {
		return false
	}
	pace, ok := a.PaceSecPerKm()
	if !ok {
		return false
	}
	return pace >= minRunPaceSecKm && pace <= maxRunPaceSecKm
}

// IsRun reports whether an activity should be treated as a run. An
// authoritative sport type wins when the provider supplies one; the pace
// heuristic only applies to typeless sources like bare GPX tracks.
func IsRun(a store.Activity) bool {
	switch a.SportType {
	case "":
		return LooksLikeRun(a)
	case "Run", "TrailRun", "VirtualRun", "running":
		return true
	default:
		return false
	}
}

// FilterRunning keeps only activities IsRun accepts.
func FilterRunning(activities []store.Activity) []store.Activity {
	out := make([]store.Activity, 0, len(activities))
	for _, a := range activities {
		if IsRun(a) {
			out = append(out, a)
		}
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func positiveOrNil(f *float64) *float64 {
	if f == nil || !isFinite(*f) || *f <= 0 {
		return nil
	}
	v := *f
	return &v
}

func nonNegativeOrNil(f *float64) *float64 {
	if f == nil || !isFinite(*f) || *f < 0 {
		return nil
	}
	v := *f
	return &v
}
