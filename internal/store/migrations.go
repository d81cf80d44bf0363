package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activities in canonical form (post-normalization)
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			source TEXT NOT NULL,
			sport_type TEXT,
			start_date TEXT,
			distance REAL NOT NULL,
			duration REAL NOT NULL,
			avg_heartrate REAL,
			max_heartrate REAL,
			elevation_gain REAL,
			has_track INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_source ON activities(source)`,

		// GPS track points for file-imported activities
		`CREATE TABLE IF NOT EXISTS track_points (
			activity_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			elevation REAL,
			time_offset INTEGER,
			PRIMARY KEY (activity_id, seq),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		// Personal record history (append-only; newest row per category is
		// the current best)
		`CREATE TABLE IF NOT EXISTS personal_records (
			id INTEGER PRIMARY KEY,
			category TEXT NOT NULL,
			activity_id TEXT NOT NULL,
			value REAL NOT NULL,
			previous_value REAL,
			improvement_abs REAL,
			improvement_pct REAL,
			confidence TEXT NOT NULL,
			achieved_at TEXT NOT NULL,
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_personal_records_category ON personal_records(category, id)`,
		`CREATE INDEX IF NOT EXISTS idx_personal_records_achieved ON personal_records(achieved_at)`,

		// Marathon prediction snapshots
		`CREATE TABLE IF NOT EXISTS predictions (
			id INTEGER PRIMARY KEY,
			seconds INTEGER NOT NULL,
			confidence_interval_seconds INTEGER NOT NULL,
			reliability TEXT NOT NULL,
			sample_size INTEGER NOT NULL,
			computed_at TEXT NOT NULL
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
