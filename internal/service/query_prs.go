package service

import (
	"sort"
	"time"

	"marathon-coach/internal/analysis"
	"marathon-coach/internal/store"
)

// PRData contains everything for the records screen.
type PRData struct {
	Current   []store.PersonalRecord            // newest best per category
	Histories map[string][]store.PersonalRecord // full ledger per category
	Analysis  analysis.PRAnalysis               // injury-risk view
}

// displayOrder fixes the on-screen category ordering: race distances by
// length, then the derived categories.
var displayOrder = map[string]int{
	analysis.Category5K:           0,
	analysis.Category10K:          1,
	analysis.CategoryHalfMarathon: 2,
	analysis.CategoryMarathon:     3,
	analysis.CategoryFastest1K:    4,
	analysis.CategoryLongestRun:   5,
	analysis.CategoryWeeklyVolume: 6,
	analysis.CategoryMostClimb:    7,
}

// GetPRData loads current records, their histories, and the progress
// analysis.
func (q *QueryService) GetPRData() (*PRData, error) {
	return q.prsAt(time.Now())
}

func (q *QueryService) prsAt(now time.Time) (*PRData, error) {
	current, err := q.store.GetCurrentRecords()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(current, func(i, j int) bool {
		return displayOrder[current[i].Category] < displayOrder[current[j].Category]
	})

	histories, err := q.store.GetAllRecordHistories()
	if err != nil {
		return nil, err
	}

	return &PRData{
		Current:   current,
		Histories: histories,
		Analysis:  analysis.AnalyzeProgress(histories, now),
	}, nil
}
