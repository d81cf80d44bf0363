package store

import "time"

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Activity is the canonical activity record every analysis works on.
// IDs are opaque strings: Strava activities use "strava:<id>", file imports
// get a generated UUID. Distances are meters, durations seconds.
type Activity struct {
	ID            string
	Name          string
	Source        string // "strava", "gpx", "fit"
	SportType     string // provider sport type, empty when the source has none
	StartDate     *time.Time
	Distance      float64 // meters
	Duration      float64 // seconds (moving time)
	AvgHeartrate  *float64
	MaxHeartrate  *float64
	ElevationGain *float64 // meters
	HasTrack      bool
}

// PaceSecPerKm returns the activity pace in seconds per kilometer.
// The bool is false for zero distance or duration so callers never divide
// by zero downstream.
func (a Activity) PaceSecPerKm() (float64, bool) {
	if a.Distance <= 0 || a.Duration <= 0 {
		return 0, false
	}
	return a.Duration / (a.Distance / 1000), true
}

// TrackPoint is a single GPS sample belonging to an activity
type TrackPoint struct {
	ActivityID string
	Seq        int
	Lat        float64
	Lng        float64
	Elevation  *float64 // meters
	TimeOffset *int     // seconds from activity start
}

// PersonalRecord is one entry in a category's append-only record history.
// The newest row per category is the current best.
type PersonalRecord struct {
	ID             int64
	Category       string // e.g. "5k", "half_marathon", "longest_run"
	ActivityID     string
	Value          float64 // seconds for time categories, meters for distance/elevation, km for volume
	PreviousValue  *float64
	ImprovementAbs *float64
	ImprovementPct *float64
	Confidence     string // "high", "medium", "low"
	AchievedAt     time.Time
}

// PredictionSnapshot is a stored marathon prediction
type PredictionSnapshot struct {
	ID                        int64
	Seconds                   int
	ConfidenceIntervalSeconds int
	Reliability               string // "high", "medium", "low"
	SampleSize                int
	ComputedAt                time.Time
}
