package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SavePrediction stores a new prediction snapshot.
func (db *DB) SavePrediction(p *PredictionSnapshot) error {
	result, err := db.Exec(`
		INSERT INTO predictions (
			seconds, confidence_interval_seconds, reliability, sample_size, computed_at
		) VALUES (?, ?, ?, ?, ?)
	`,
		p.Seconds, p.ConfidenceIntervalSeconds, p.Reliability, p.SampleSize,
		p.ComputedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	p.ID, err = result.LastInsertId()
	return err
}

// LatestPrediction returns the most recently computed prediction snapshot.
func (db *DB) LatestPrediction() (*PredictionSnapshot, error) {
	row := db.QueryRow(`
		SELECT id, seconds, confidence_interval_seconds, reliability, sample_size, computed_at
		FROM predictions
		ORDER BY id DESC
		LIMIT 1
	`)

	var p PredictionSnapshot
	var computedAt string
	err := row.Scan(&p.ID, &p.Seconds, &p.ConfidenceIntervalSeconds, &p.Reliability, &p.SampleSize, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPrediction
	}
	if err != nil {
		return nil, err
	}

	p.ComputedAt, err = time.Parse(time.RFC3339, computedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing computed_at %q: %w", computedAt, err)
	}
	return &p, nil
}

// PredictionHistory returns up to limit snapshots, newest first.
func (db *DB) PredictionHistory(limit int) ([]PredictionSnapshot, error) {
	rows, err := db.Query(`
		SELECT id, seconds, confidence_interval_seconds, reliability, sample_size, computed_at
		FROM predictions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []PredictionSnapshot
	for rows.Next() {
		var p PredictionSnapshot
		var computedAt string
		if err := rows.Scan(&p.ID, &p.Seconds, &p.ConfidenceIntervalSeconds, &p.Reliability, &p.SampleSize, &computedAt); err != nil {
			return nil, err
		}
		p.ComputedAt, err = time.Parse(time.RFC3339, computedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing computed_at %q: %w", computedAt, err)
		}
		snapshots = append(snapshots, p)
	}
	return snapshots, rows.Err()
}
