package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertActivity inserts or updates an activity.
func (db *DB) UpsertActivity(a *Activity) error {
	var startDate *string
	if a.StartDate != nil {
		s := a.StartDate.Format(time.RFC3339)
		startDate = &s
	}

	_, err := db.Exec(`
		INSERT INTO activities (
			id, name, source, sport_type, start_date, distance, duration,
			avg_heartrate, max_heartrate, elevation_gain, has_track
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			source = excluded.source,
			sport_type = excluded.sport_type,
			start_date = excluded.start_date,
			distance = excluded.distance,
			duration = excluded.duration,
			avg_heartrate = excluded.avg_heartrate,
			max_heartrate = excluded.max_heartrate,
			elevation_gain = excluded.elevation_gain,
			has_track = excluded.has_track
	`,
		a.ID, a.Name, a.Source, nullIfEmpty(a.SportType), startDate,
		a.Distance, a.Duration, a.AvgHeartrate, a.MaxHeartrate,
		a.ElevationGain, boolToInt(a.HasTrack),
	)
	return err
}

// GetActivity retrieves an activity by ID.
func (db *DB) GetActivity(id string) (*Activity, error) {
	row := db.QueryRow(activitySelect+` WHERE id = ?`, id)
	a, err := scanActivity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	return a, err
}

// ListActivities returns activities ordered by start date descending,
// undated activities last.
func (db *DB) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := db.Query(activitySelect+`
		ORDER BY start_date IS NULL, start_date DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActivities(rows)
}

// ListAllActivities returns every activity, oldest first, undated last.
func (db *DB) ListAllActivities() ([]Activity, error) {
	rows, err := db.Query(activitySelect + `
		ORDER BY start_date IS NULL, start_date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActivities(rows)
}

// ListActivitiesSince returns dated activities starting on or after t,
// ascending by start date.
func (db *DB) ListActivitiesSince(t time.Time) ([]Activity, error) {
	rows, err := db.Query(activitySelect+`
		WHERE start_date IS NOT NULL AND start_date >= ?
		ORDER BY start_date ASC
	`, t.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActivities(rows)
}

// CountActivities returns the total number of activities.
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM activities`).Scan(&count)
	return count, err
}

// ReplaceTrackPoints deletes and re-inserts the track for an activity.
func (db *DB) ReplaceTrackPoints(activityID string, points []TrackPoint) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM track_points WHERE activity_id = ?`, activityID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO track_points (activity_id, seq, lat, lng, elevation, time_offset)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.Exec(activityID, i, p.Lat, p.Lng, p.Elevation, p.TimeOffset); err != nil {
			return fmt.Errorf("inserting track point %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetTrackPoints retrieves the GPS track for an activity in order.
func (db *DB) GetTrackPoints(activityID string) ([]TrackPoint, error) {
	rows, err := db.Query(`
		SELECT activity_id, seq, lat, lng, elevation, time_offset
		FROM track_points
		WHERE activity_id = ?
		ORDER BY seq
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrackPoint
	for rows.Next() {
		var p TrackPoint
		if err := rows.Scan(&p.ActivityID, &p.Seq, &p.Lat, &p.Lng, &p.Elevation, &p.TimeOffset); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

const activitySelect = `
	SELECT id, name, source, sport_type, start_date, distance, duration,
		avg_heartrate, max_heartrate, elevation_gain, has_track
	FROM activities`

func scanActivity(scan func(dest ...any) error) (*Activity, error) {
	var a Activity
	var sportType, startDate *string
	var hasTrack int

	err := scan(
		&a.ID, &a.Name, &a.Source, &sportType, &startDate, &a.Distance,
		&a.Duration, &a.AvgHeartrate, &a.MaxHeartrate, &a.ElevationGain,
		&hasTrack,
	)
	if err != nil {
		return nil, err
	}

	if sportType != nil {
		a.SportType = *sportType
	}
	if startDate != nil {
		t, err := time.Parse(time.RFC3339, *startDate)
		if err != nil {
			return nil, fmt.Errorf("parsing start_date %q: %w", *startDate, err)
		}
		a.StartDate = &t
	}
	a.HasTrack = hasTrack != 0

	return &a, nil
}

func collectActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
