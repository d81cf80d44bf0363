package store

import (
	"database/sql"
	"fmt"
	"time"
)

// AppendPersonalRecord appends a record to its category history.
// History rows are never updated or deleted; the newest row per category
// is the current best.
func (db *DB) AppendPersonalRecord(pr *PersonalRecord) error {
	result, err := db.Exec(`
		INSERT INTO personal_records (
			category, activity_id, value, previous_value,
			improvement_abs, improvement_pct, confidence, achieved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		pr.Category, pr.ActivityID, pr.Value, pr.PreviousValue,
		pr.ImprovementAbs, pr.ImprovementPct, pr.Confidence,
		pr.AchievedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	pr.ID, err = result.LastInsertId()
	return err
}

// GetRecordHistory returns a category's full history in append order.
func (db *DB) GetRecordHistory(category string) ([]PersonalRecord, error) {
	rows, err := db.Query(recordSelect+`
		WHERE category = ?
		ORDER BY id
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecords(rows)
}

// GetAllRecordHistories returns every category's history, keyed by category,
// each in append order.
func (db *DB) GetAllRecordHistories() (map[string][]PersonalRecord, error) {
	rows, err := db.Query(recordSelect + ` ORDER BY category, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}

	histories := make(map[string][]PersonalRecord)
	for _, r := range records {
		histories[r.Category] = append(histories[r.Category], r)
	}
	return histories, nil
}

// GetCurrentRecords returns the current best per category (the newest
// history row), ordered by category.
func (db *DB) GetCurrentRecords() ([]PersonalRecord, error) {
	rows, err := db.Query(recordSelect + `
		WHERE id IN (SELECT MAX(id) FROM personal_records GROUP BY category)
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecords(rows)
}

const recordSelect = `
	SELECT id, category, activity_id, value, previous_value,
		improvement_abs, improvement_pct, confidence, achieved_at
	FROM personal_records`

func collectRecords(rows *sql.Rows) ([]PersonalRecord, error) {
	var records []PersonalRecord
	for rows.Next() {
		var pr PersonalRecord
		var achievedAt string

		err := rows.Scan(
			&pr.ID, &pr.Category, &pr.ActivityID, &pr.Value, &pr.PreviousValue,
			&pr.ImprovementAbs, &pr.ImprovementPct, &pr.Confidence, &achievedAt,
		)
		if err != nil {
			return nil, err
		}

		pr.AchievedAt, err = time.Parse(time.RFC3339, achievedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing achieved_at %q: %w", achievedAt, err)
		}
		records = append(records, pr)
	}
	return records, rows.Err()
}
