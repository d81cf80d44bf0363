package service

const (
	// Pagination limits
	RecentActivitiesLimit = 10
	DashboardWeeks        = 12

	// Runs kept per sync for the marathon prediction
	PredictionHistoryLimit = 20

	// Track points fetched per sync, bounded by Strava's 15-minute budget
	StreamBatchLimit = 50

	// Sync state keys
	lastSyncKey = "last_activity_sync"
)
