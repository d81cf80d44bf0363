package service

import (
	"testing"
	"time"

	"marathon-coach/internal/analysis"
	"marathon-coach/internal/ingest"
	"marathon-coach/internal/store"
)

func rawRun(date time.Time, distance, duration float64) ingest.RawActivity {
	return ingest.RawActivity{
		Source:    "gpx",
		Name:      "Imported run",
		SportType: "running",
		StartDate: &date,
		Distance:  distance,
		Duration:  duration,
	}
}

func TestStravaNumericID(t *testing.T) {
	tests := []struct {
		id     string
		want   int64
		wantOK bool
	}{
		{"strava:12345", 12345, true},
		{"strava:0", 0, true},
		{"gpx-import", 0, false},
		{"strava:notanumber", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := stravaNumericID(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("stravaNumericID(%q) = (%d, %v), want (%d, %v)", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSortByDateUndatedLast(t *testing.T) {
	d1 := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)

	activities := []store.Activity{
		{ID: "undated"},
		{ID: "late", StartDate: &d2},
		{ID: "early", StartDate: &d1},
	}

	sortByDate(activities)

	wantOrder := []string{"early", "late", "undated"}
	for i, want := range wantOrder {
		if activities[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, activities[i].ID, want)
		}
	}
}

func makeCurve(stresses ...float64) []analysis.LoadPoint {
	curve := make([]analysis.LoadPoint, 0, len(stresses))
	for _, s := range stresses {
		curve = append(curve, analysis.LoadPoint{DailyStress: s})
	}
	return curve
}

func TestDaysSinceRest(t *testing.T) {
	// implicitly covered through the dashboard, but the boundary cases are
	// cheap to pin down
	curve := makeCurve(0, 50, 60, 70)
	if got := daysSinceRest(curve); got != 3 {
		t.Errorf("daysSinceRest = %d, want 3", got)
	}
	if got := daysSinceRest(makeCurve(10, 20, 0)); got != 0 {
		t.Errorf("rest yesterday should read 0, got %d", got)
	}
	if got := daysSinceRest(nil); got != 0 {
		t.Errorf("empty curve = %d, want 0", got)
	}
}
