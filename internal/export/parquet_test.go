package export

import (
	"bytes"
	"testing"
	"time"

	"marathon-coach/internal/store"
)

func TestMarshalActivitiesProducesParquet(t *testing.T) {
	date := time.Date(2025, 5, 1, 7, 0, 0, 0, time.UTC)
	hr := 150.0

	activities := []store.Activity{
		{
			ID:           "strava:1",
			Name:         "Morning Run",
			Source:       "strava",
			SportType:    "Run",
			StartDate:    &date,
			Distance:     10000,
			Duration:     3000,
			AvgHeartrate: &hr,
			HasTrack:     true,
		},
		{
			ID:       "import-2",
			Name:     "Untitled activity",
			Source:   "gpx",
			Distance: 5000,
			Duration: 1500,
		},
	}

	blob, err := MarshalActivities(activities)
	if err != nil {
		t.Fatalf("MarshalActivities: %v", err)
	}

	// Parquet files open and close with the PAR1 magic
	if len(blob) < 8 {
		t.Fatalf("blob too small: %d bytes", len(blob))
	}
	if !bytes.HasPrefix(blob, []byte("PAR1")) || !bytes.HasSuffix(blob, []byte("PAR1")) {
		t.Error("output is not a parquet file")
	}
}

func TestMarshalActivitiesEmpty(t *testing.T) {
	blob, err := MarshalActivities(nil)
	if err != nil {
		t.Fatalf("MarshalActivities: %v", err)
	}
	if !bytes.HasPrefix(blob, []byte("PAR1")) {
		t.Error("empty export must still be a valid parquet file")
	}
}
