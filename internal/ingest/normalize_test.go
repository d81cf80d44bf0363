package ingest

import (
	"math"
	"testing"
	"time"

	"marathon-coach/internal/store"
)

func timePtr(t time.Time) *time.Time { return &t }
func floatPtr(f float64) *float64    { return &f }

func TestNormalizeDropsMalformedRecords(t *testing.T) {
	date := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	raws := []RawActivity{
		{Source: "strava", ProviderID: "1", StartDate: &date, Distance: 5000, Duration: 1500},
		{Source: "strava", ProviderID: "2", Distance: 0, Duration: 0},              // nothing usable
		{Source: "strava", ProviderID: "3", Distance: math.NaN(), Duration: 1200},  // non-finite
		{Source: "strava", ProviderID: "4", Distance: -100, Duration: 600},         // negative
		{Source: "strava", ProviderID: "5", Distance: 8000, Duration: math.Inf(1)}, // non-finite
		{Source: "gpx", StartDate: &date, Distance: 10000, Duration: 3000},         // no provider ID
	}

	activities, stats := Normalize(raws)

	if len(activities) != 2 {
		t.Fatalf("kept %d activities, want 2", len(activities))
	}
	if stats.Seen != 6 || stats.Kept != 2 || stats.Dropped != 4 {
		t.Errorf("stats = %+v, want Seen 6 Kept 2 Dropped 4", stats)
	}
	if activities[0].ID != "strava:1" {
		t.Errorf("provider-backed ID = %q, want strava:1", activities[0].ID)
	}
	if activities[1].ID == "" || activities[1].ID == activities[0].ID {
		t.Errorf("file import should get a generated ID, got %q", activities[1].ID)
	}
}

func TestNormalizeDiscardsNonPositiveHeartrate(t *testing.T) {
	raws := []RawActivity{{
		Source:       "strava",
		ProviderID:   "1",
		Distance:     5000,
		Duration:     1500,
		AvgHeartrate: floatPtr(0),
		MaxHeartrate: floatPtr(188),
	}}

	activities, _ := Normalize(raws)
	if len(activities) != 1 {
		t.Fatalf("kept %d activities, want 1", len(activities))
	}
	if activities[0].AvgHeartrate != nil {
		t.Errorf("zero avg HR should be dropped, got %v", *activities[0].AvgHeartrate)
	}
	if activities[0].MaxHeartrate == nil || *activities[0].MaxHeartrate != 188 {
		t.Errorf("max HR = %v, want 188", activities[0].MaxHeartrate)
	}
}

func makeActivity(id string, date time.Time, distance, duration float64) store.Activity {
	return store.Activity{
		ID:        id,
		StartDate: timePtr(date),
		Distance:  distance,
		Duration:  duration,
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	date := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	activities := []store.Activity{
		makeActivity("a", date, 5000, 1500),
		makeActivity("b", date, 5000, 1500), // same fingerprint as a
		makeActivity("c", date, 10000, 3000),
		makeActivity("d", date.AddDate(0, 0, 1), 5000, 1500), // different date
	}

	once := Deduplicate(activities)
	if len(once) != 3 {
		t.Fatalf("first pass kept %d, want 3", len(once))
	}
	if once[0].ID != "a" {
		t.Errorf("first occurrence should win, got %q", once[0].ID)
	}

	twice := Deduplicate(once)
	if len(twice) != len(once) {
		t.Errorf("deduplicate is not idempotent: %d != %d", len(twice), len(once))
	}

	doubled := Deduplicate(append(append([]store.Activity{}, activities...), activities...))
	if len(doubled) != 3 {
		t.Errorf("deduplicate(x ++ x) kept %d, want 3", len(doubled))
	}
}

func TestLooksLikeRun(t *testing.T) {
	date := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		distance float64
		duration float64
		want     bool
	}{
		{"easy 5k", 5000, 1600, true},           // 5:20/km
		{"too short", 800, 300, false},          // under 1km
		{"ultra distance", 60000, 21600, false}, // over 50km
		{"cycling pace", 30000, 3600, false},    // 2:00/km
		{"walking pace", 5000, 3000, false},     // 10:00/km
		{"fast threshold", 10000, 1800, true},   // exactly 3:00/km
		{"slow boundary", 5000, 2400, true},     // exactly 8:00/km
		{"zero duration", 5000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := makeActivity("x", date, tt.distance, tt.duration)
			if got := LooksLikeRun(a); got != tt.want {
				t.Errorf("LooksLikeRun(%v m, %v s) = %v, want %v", tt.distance, tt.duration, got, tt.want)
			}
		})
	}
}

func TestIsRunPrefersSportType(t *testing.T) {
	date := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	ride := makeActivity("r", date, 5000, 1600) // run-like pace
	ride.SportType = "Ride"
	if IsRun(ride) {
		t.Error("typed Ride should not pass as a run despite run-like pace")
	}

	slowRun := makeActivity("s", date, 5000, 3000) // outside heuristic pace
	slowRun.SportType = "Run"
	if !IsRun(slowRun) {
		t.Error("typed Run should pass regardless of heuristic")
	}

	untyped := makeActivity("u", date, 5000, 1600)
	if !IsRun(untyped) {
		t.Error("untyped run-like activity should fall back to the heuristic")
	}
}
