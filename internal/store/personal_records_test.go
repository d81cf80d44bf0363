package store

import (
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertTestActivity(t *testing.T, db *DB, id string, date time.Time) {
	t.Helper()
	err := db.UpsertActivity(&Activity{
		ID:        id,
		Name:      "test run",
		Source:    "gpx",
		StartDate: &date,
		Distance:  5000,
		Duration:  1500,
	})
	if err != nil {
		t.Fatalf("inserting activity %s: %v", id, err)
	}
}

func TestAppendPersonalRecordKeepsHistory(t *testing.T) {
	db := testDB(t)

	day1 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 7)
	insertTestActivity(t, db, "a1", day1)
	insertTestActivity(t, db, "a2", day2)

	first := &PersonalRecord{
		Category:   "5k",
		ActivityID: "a1",
		Value:      1500,
		Confidence: "medium",
		AchievedAt: day1,
	}
	if err := db.AppendPersonalRecord(first); err != nil {
		t.Fatalf("appending first record: %v", err)
	}

	prev := first.Value
	second := &PersonalRecord{
		Category:      "5k",
		ActivityID:    "a2",
		Value:         1450,
		PreviousValue: &prev,
		Confidence:    "high",
		AchievedAt:    day2,
	}
	if err := db.AppendPersonalRecord(second); err != nil {
		t.Fatalf("appending second record: %v", err)
	}

	history, err := db.GetRecordHistory("5k")
	if err != nil {
		t.Fatalf("getting history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Value != 1500 || history[1].Value != 1450 {
		t.Errorf("history values = %v, %v; want 1500, 1450", history[0].Value, history[1].Value)
	}
	if history[1].PreviousValue == nil || *history[1].PreviousValue != 1500 {
		t.Errorf("second record PreviousValue = %v, want 1500", history[1].PreviousValue)
	}

	current, err := db.GetCurrentRecords()
	if err != nil {
		t.Fatalf("getting current records: %v", err)
	}
	if len(current) != 1 {
		t.Fatalf("current records length = %d, want 1", len(current))
	}
	if current[0].Value != 1450 {
		t.Errorf("current best = %v, want 1450", current[0].Value)
	}
}

func TestGetAllRecordHistoriesGroupsByCategory(t *testing.T) {
	db := testDB(t)

	day := time.Date(2025, 4, 10, 7, 30, 0, 0, time.UTC)
	insertTestActivity(t, db, "a1", day)

	for _, cat := range []string{"5k", "10k", "longest_run"} {
		pr := &PersonalRecord{
			Category:   cat,
			ActivityID: "a1",
			Value:      100,
			Confidence: "low",
			AchievedAt: day,
		}
		if err := db.AppendPersonalRecord(pr); err != nil {
			t.Fatalf("appending %s record: %v", cat, err)
		}
	}

	histories, err := db.GetAllRecordHistories()
	if err != nil {
		t.Fatalf("getting histories: %v", err)
	}
	if len(histories) != 3 {
		t.Errorf("histories length = %d, want 3", len(histories))
	}
	for _, cat := range []string{"5k", "10k", "longest_run"} {
		if len(histories[cat]) != 1 {
			t.Errorf("history for %s length = %d, want 1", cat, len(histories[cat]))
		}
	}
}

func TestActivityRoundTrip(t *testing.T) {
	db := testDB(t)

	date := time.Date(2025, 5, 2, 6, 15, 0, 0, time.UTC)
	hr := 152.0
	gain := 85.0
	in := &Activity{
		ID:            "strava:123",
		Name:          "Morning Run",
		Source:        "strava",
		SportType:     "Run",
		StartDate:     &date,
		Distance:      10000,
		Duration:      3000,
		AvgHeartrate:  &hr,
		ElevationGain: &gain,
		HasTrack:      true,
	}
	if err := db.UpsertActivity(in); err != nil {
		t.Fatalf("upserting: %v", err)
	}

	out, err := db.GetActivity("strava:123")
	if err != nil {
		t.Fatalf("getting: %v", err)
	}
	if out.Name != in.Name || out.SportType != "Run" || out.Distance != 10000 {
		t.Errorf("round trip mismatch: got %+v", out)
	}
	if out.StartDate == nil || !out.StartDate.Equal(date) {
		t.Errorf("StartDate = %v, want %v", out.StartDate, date)
	}
	if out.AvgHeartrate == nil || *out.AvgHeartrate != 152 {
		t.Errorf("AvgHeartrate = %v, want 152", out.AvgHeartrate)
	}
	if !out.HasTrack {
		t.Error("HasTrack = false, want true")
	}
}

func TestGetActivityNotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetActivity("missing")
	if err != ErrActivityNotFound {
		t.Errorf("err = %v, want ErrActivityNotFound", err)
	}
}
