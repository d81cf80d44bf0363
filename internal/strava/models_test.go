package strava

import (
	"testing"
	"time"
)

func TestToRawStartDatePrefersLocal(t *testing.T) {
	// A 23:30 local run; Strava reports start_date in UTC (next day) and
	// start_date_local as the athlete's wall clock.
	utc := time.Date(2025, 6, 3, 3, 30, 0, 0, time.UTC)
	local := time.Date(2025, 6, 2, 23, 30, 0, 0, time.UTC)

	a := Activity{
		ID:             42,
		Name:           "Night run",
		SportType:      "Run",
		StartDate:      utc,
		StartDateLocal: local,
		Distance:       8000,
		MovingTime:     2400,
	}

	raw := a.ToRaw()
	if raw.StartDate == nil {
		t.Fatal("expected a start date")
	}
	if !raw.StartDate.Equal(local) {
		t.Errorf("start date = %v, want local wall clock %v", raw.StartDate, local)
	}
	if raw.StartDate.Day() != 2 {
		t.Errorf("attributed to day %d, want 2", raw.StartDate.Day())
	}
}

func TestToRawStartDateFallsBackToUTC(t *testing.T) {
	utc := time.Date(2025, 6, 3, 7, 0, 0, 0, time.UTC)

	a := Activity{ID: 43, StartDate: utc, Distance: 5000, MovingTime: 1500}

	raw := a.ToRaw()
	if raw.StartDate == nil || !raw.StartDate.Equal(utc) {
		t.Errorf("start date = %v, want %v", raw.StartDate, utc)
	}
}

func TestToRawFieldMapping(t *testing.T) {
	a := Activity{
		ID:                 44,
		Name:               "Morning run",
		Type:               "Run",
		Distance:           10000,
		MovingTime:         3000,
		ElapsedTime:        3300,
		TotalElevationGain: 85,
		AverageHeartrate:   152,
		MaxHeartrate:       171,
		HasHeartrate:       true,
	}

	raw := a.ToRaw()
	if raw.ProviderID != "44" || raw.Source != "strava" {
		t.Errorf("identity = %s/%s", raw.Source, raw.ProviderID)
	}
	// sport_type missing: fall back to the legacy type field
	if raw.SportType != "Run" {
		t.Errorf("sport type = %q, want Run", raw.SportType)
	}
	// Moving time, not elapsed
	if raw.Duration != 3000 {
		t.Errorf("duration = %v, want 3000", raw.Duration)
	}
	if raw.AvgHeartrate == nil || *raw.AvgHeartrate != 152 {
		t.Errorf("avg HR = %v, want 152", raw.AvgHeartrate)
	}
	if raw.ElevationGain == nil || *raw.ElevationGain != 85 {
		t.Errorf("elevation gain = %v, want 85", raw.ElevationGain)
	}
}

func TestToRawIgnoresHRWithoutSensor(t *testing.T) {
	a := Activity{ID: 45, Distance: 5000, MovingTime: 1500, AverageHeartrate: 120}

	raw := a.ToRaw()
	if raw.AvgHeartrate != nil {
		t.Errorf("avg HR = %v, want nil when has_heartrate is false", *raw.AvgHeartrate)
	}
}
