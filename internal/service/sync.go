package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"marathon-coach/internal/analysis"
	"marathon-coach/internal/config"
	"marathon-coach/internal/ingest"
	"marathon-coach/internal/store"
	"marathon-coach/internal/strava"
)

// SyncService pulls activities from Strava, normalizes them, and runs the
// downstream analyses: record detection and the marathon prediction.
type SyncService struct {
	client  *strava.Client
	store   *store.DB
	athlete config.AthleteConfig
}

// NewSyncService wires a sync service to its client and store.
func NewSyncService(client *strava.Client, db *store.DB, athlete config.AthleteConfig) *SyncService {
	return &SyncService{
		client:  client,
		store:   db,
		athlete: athlete,
	}
}

// SyncProgress reports progress during a sync.
type SyncProgress struct {
	Phase           string // "activities", "tracks", "records", "prediction"
	Total           int
	Completed       int
	CurrentActivity string
	Error           error
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	ActivitiesDropped int
	TracksFetched     int
	NewRecords        []store.PersonalRecord
	Prediction        *analysis.PredictionResult
	Errors            []error
}

// SyncAll runs the full pipeline: fetch, normalize, store, fetch tracks,
// detect records, refresh the prediction. progress may be nil; when set it
// is closed before return.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	stored, err := s.syncActivities(ctx, progress, result)
	if err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	if err := s.syncTracks(ctx, progress, result, stored); err != nil {
		return result, fmt.Errorf("syncing tracks: %w", err)
	}

	if err := s.detectRecords(ctx, progress, result, stored); err != nil {
		return result, fmt.Errorf("detecting records: %w", err)
	}

	if err := s.refreshPrediction(progress, result); err != nil {
		return result, fmt.Errorf("refreshing prediction: %w", err)
	}

	return result, nil
}

// syncActivities fetches new activities, runs them through normalization
// and the running filter, and stores the survivors. Returns the stored
// activities ordered oldest first so record detection replays history in
// the order it happened.
func (s *SyncService) syncActivities(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) ([]store.Activity, error) {
	var after time.Time
	if lastSync, _ := s.store.GetSyncState(lastSyncKey); lastSync != "" {
		after, _ = time.Parse(time.RFC3339, lastSync)
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "activities"}
	}

	fetched, err := s.client.GetAllActivities(ctx, after, func(n int) {
		if progress != nil {
			progress <- SyncProgress{Phase: "activities", Total: n, Completed: n}
		}
	})
	if err != nil {
		return nil, err
	}
	result.ActivitiesFetched = len(fetched)

	raws := make([]ingest.RawActivity, 0, len(fetched))
	for _, a := range fetched {
		raws = append(raws, a.ToRaw())
	}

	normalized, stats := ingest.Normalize(raws)
	normalized = ingest.Deduplicate(normalized)
	runs := ingest.FilterRunning(normalized)
	result.ActivitiesDropped = stats.Dropped + (len(normalized) - len(runs))

	stored := make([]store.Activity, 0, len(runs))
	for _, a := range runs {
		a := a
		if err := s.store.UpsertActivity(&a); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing %s: %w", a.ID, err))
			continue
		}
		stored = append(stored, a)
		result.ActivitiesStored++
	}

	sortByDate(stored)

	s.store.SetSyncState(lastSyncKey, time.Now().Format(time.RFC3339))

	return stored, nil
}

// syncTracks fetches GPS streams for newly stored Strava activities. Track
// fetches are best effort: a failed stream never fails the sync.
func (s *SyncService) syncTracks(ctx context.Context, progress chan<- SyncProgress, result *SyncResult, stored []store.Activity) error {
	var pending []store.Activity
	for _, a := range stored {
		if a.Source == "strava" && !a.HasTrack && len(pending) < StreamBatchLimit {
			pending = append(pending, a)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "tracks", Total: len(pending)}
	}

	for i, a := range pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "tracks", Total: len(pending), Completed: i, CurrentActivity: a.Name}
		}

		stravaID, ok := stravaNumericID(a.ID)
		if !ok {
			continue
		}

		streams, err := s.client.GetActivityStreams(ctx, stravaID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("streams for %s: %w", a.ID, err))
			continue
		}

		points := streams.TrackPoints()
		if len(points) == 0 {
			continue
		}
		if err := s.store.ReplaceTrackPoints(a.ID, points); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving track for %s: %w", a.ID, err))
			continue
		}

		a.HasTrack = true
		if err := s.store.UpsertActivity(&a); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("marking track for %s: %w", a.ID, err))
			continue
		}
		result.TracksFetched++
	}

	return nil
}

// detectRecords replays the stored activities oldest first against the
// record ledger, appending every new record.
func (s *SyncService) detectRecords(ctx context.Context, progress chan<- SyncProgress, result *SyncResult, stored []store.Activity) error {
	if len(stored) == 0 {
		return nil
	}

	histories, err := s.store.GetAllRecordHistories()
	if err != nil {
		return fmt.Errorf("loading record histories: %w", err)
	}
	ledger := analysis.Ledger(histories)

	if progress != nil {
		progress <- SyncProgress{Phase: "records", Total: len(stored)}
	}

	for i, a := range stored {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "records", Total: len(stored), Completed: i, CurrentActivity: a.Name}
		}

		recent, err := s.recentAround(a)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("loading context for %s: %w", a.ID, err))
			continue
		}

		for _, pr := range analysis.DetectRecords(a, recent, ledger) {
			pr := pr
			if err := s.store.AppendPersonalRecord(&pr); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("saving record %s: %w", pr.Category, err))
				continue
			}
			ledger = ledger.Append(pr)
			result.NewRecords = append(result.NewRecords, pr)
		}
	}

	return nil
}

// recentAround loads the activities inside the weekly-volume window of a
// candidate activity.
func (s *SyncService) recentAround(a store.Activity) ([]store.Activity, error) {
	if a.StartDate == nil {
		return nil, nil
	}
	return s.store.ListActivitiesSince(a.StartDate.Add(-7 * 24 * time.Hour))
}

// refreshPrediction recomputes the marathon prediction from the full
// activity history and snapshots it.
func (s *SyncService) refreshPrediction(progress chan<- SyncProgress, result *SyncResult) error {
	if progress != nil {
		progress <- SyncProgress{Phase: "prediction"}
	}

	activities, err := s.store.ListAllActivities()
	if err != nil {
		return fmt.Errorf("loading activities: %w", err)
	}
	if len(activities) == 0 {
		return nil
	}

	prediction := analysis.Predict(activities)
	result.Prediction = &prediction

	snapshot := &store.PredictionSnapshot{
		Seconds:                   prediction.Seconds,
		ConfidenceIntervalSeconds: prediction.ConfidenceIntervalSeconds,
		Reliability:               prediction.Reliability,
		SampleSize:                prediction.SampleSize,
		ComputedAt:                time.Now(),
	}
	return s.store.SavePrediction(snapshot)
}

// RateLimitStatus reports the client's remaining API budget.
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}

// stravaNumericID recovers the provider ID from an activity ID of the
// form "strava:<id>".
func stravaNumericID(id string) (int64, bool) {
	raw, ok := strings.CutPrefix(id, "strava:")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// sortByDate orders activities oldest first, undated last.
func sortByDate(activities []store.Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i], activities[j]
		if a.StartDate == nil {
			return false
		}
		if b.StartDate == nil {
			return true
		}
		return a.StartDate.Before(*b.StartDate)
	})
}
