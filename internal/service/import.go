package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"marathon-coach/internal/analysis"
	"marathon-coach/internal/fitfile"
	"marathon-coach/internal/gpx"
	"marathon-coach/internal/ingest"
	"marathon-coach/internal/store"
)

// ImportService brings GPX and FIT files through the same pipeline synced
// activities take: normalize, dedup against the store, detect records.
type ImportService struct {
	store *store.DB
}

func NewImportService(db *store.DB) *ImportService {
	return &ImportService{store: db}
}

// ImportResult summarizes one file import.
type ImportResult struct {
	Activity   *store.Activity
	Skipped    bool // duplicate of an already stored activity
	NewRecords []store.PersonalRecord
}

// ImportFile imports one activity file, dispatching on extension.
func (s *ImportService) ImportFile(path string) (*ImportResult, error) {
	var raw ingest.RawActivity
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		raw, err = gpx.ReadFile(path)
	case ".fit":
		raw, err = fitfile.ReadFile(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .gpx or .fit)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return s.importRaw(raw)
}

func (s *ImportService) importRaw(raw ingest.RawActivity) (*ImportResult, error) {
	normalized, _ := ingest.Normalize([]ingest.RawActivity{raw})
	if len(normalized) == 0 {
		return nil, fmt.Errorf("file does not contain a usable activity")
	}
	a := normalized[0]

	if !ingest.IsRun(a) {
		return nil, fmt.Errorf("activity does not look like a run")
	}

	dup, err := s.isDuplicate(a)
	if err != nil {
		return nil, err
	}
	if dup {
		return &ImportResult{Skipped: true}, nil
	}

	if err := s.store.UpsertActivity(&a); err != nil {
		return nil, fmt.Errorf("storing activity: %w", err)
	}
	if len(raw.TrackPoints) > 0 {
		if err := s.store.ReplaceTrackPoints(a.ID, raw.TrackPoints); err != nil {
			return nil, fmt.Errorf("storing track: %w", err)
		}
	}

	result := &ImportResult{Activity: &a}

	histories, err := s.store.GetAllRecordHistories()
	if err != nil {
		return nil, fmt.Errorf("loading record histories: %w", err)
	}

	var recent []store.Activity
	if a.StartDate != nil {
		recent, err = s.store.ListActivitiesSince(a.StartDate.Add(-7 * 24 * time.Hour))
		if err != nil {
			return nil, fmt.Errorf("loading recent activities: %w", err)
		}
	}

	ledger := analysis.Ledger(histories)
	for _, pr := range analysis.DetectRecords(a, recent, ledger) {
		pr := pr
		if err := s.store.AppendPersonalRecord(&pr); err != nil {
			return nil, fmt.Errorf("saving record: %w", err)
		}
		ledger = ledger.Append(pr)
		result.NewRecords = append(result.NewRecords, pr)
	}

	return result, nil
}

// isDuplicate compares the candidate's dedup fingerprint against stored
// activities near its date. File re-imports are common; silently skipping
// beats double counting.
func (s *ImportService) isDuplicate(a store.Activity) (bool, error) {
	if a.StartDate == nil {
		return false, nil
	}
	nearby, err := s.store.ListActivitiesSince(a.StartDate.Add(-24 * time.Hour))
	if err != nil {
		return false, err
	}
	for _, other := range nearby {
		if other.ID == a.ID {
			continue
		}
		if len(ingest.Deduplicate([]store.Activity{other, a})) == 1 {
			return true, nil
		}
	}
	return false, nil
}
