package analysis

import (
	"math"
	"testing"
	"time"

	"marathon-coach/internal/store"
)

func prAt(category string, achieved time.Time, improvementPct float64) store.PersonalRecord {
	pr := store.PersonalRecord{Category: category, Value: 1, AchievedAt: achieved}
	if improvementPct >= 0 {
		pr.ImprovementPct = &improvementPct
	}
	return pr
}

func TestAnalyzeProgressQuietPeriod(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	histories := map[string][]store.PersonalRecord{
		Category5K: {
			prAt(Category5K, now.AddDate(0, 0, -200), 3), // outside 90-day window
			prAt(Category5K, now.AddDate(0, 0, -60), 2),
		},
	}

	got := AnalyzeProgress(histories, now)

	if got.RecentRecords != 1 {
		t.Errorf("RecentRecords = %d, want 1", got.RecentRecords)
	}
	if got.RecordsLast30 != 0 {
		t.Errorf("RecordsLast30 = %d, want 0", got.RecordsLast30)
	}
	if got.RiskScore != 0 {
		t.Errorf("RiskScore = %d, want 0", got.RiskScore)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", got.Warnings)
	}
}

func TestAnalyzeProgressRapidImprovement(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Three >5% improvements over 90 days, two of them inside 30 days,
	// but the average stays under 10% and density under 4.
	histories := map[string][]store.PersonalRecord{
		Category5K: {
			prAt(Category5K, now.AddDate(0, 0, -80), 6),
			prAt(Category5K, now.AddDate(0, 0, -20), 7),
		},
		Category10K: {
			prAt(Category10K, now.AddDate(0, 0, -10), 8),
			prAt(Category10K, now.AddDate(0, 0, -70), 1),
		},
	}

	got := AnalyzeProgress(histories, now)

	if got.BigImprovements != 3 {
		t.Errorf("BigImprovements = %d, want 3", got.BigImprovements)
	}
	if got.RecordsLast30 != 2 {
		t.Errorf("RecordsLast30 = %d, want 2", got.RecordsLast30)
	}
	if got.RiskScore != riskRapidImprovement {
		t.Errorf("RiskScore = %d, want %d", got.RiskScore, riskRapidImprovement)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(got.Warnings))
	}
}

func TestAnalyzeProgressDenseRecords(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Four records inside 30 days, all small improvements
	histories := map[string][]store.PersonalRecord{
		CategoryLongestRun: {
			prAt(CategoryLongestRun, now.AddDate(0, 0, -5), 1),
			prAt(CategoryLongestRun, now.AddDate(0, 0, -12), 1),
		},
		CategoryWeeklyVolume: {
			prAt(CategoryWeeklyVolume, now.AddDate(0, 0, -8), 2),
			prAt(CategoryWeeklyVolume, now.AddDate(0, 0, -25), 2),
		},
	}

	got := AnalyzeProgress(histories, now)

	if got.RiskScore != riskDenseRecords {
		t.Errorf("RiskScore = %d, want %d", got.RiskScore, riskDenseRecords)
	}
}

func TestAnalyzeProgressLargeAverageGain(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Two records averaging 12%, spread out enough to avoid the other flags
	histories := map[string][]store.PersonalRecord{
		Category5K: {
			prAt(Category5K, now.AddDate(0, 0, -80), 14),
			prAt(Category5K, now.AddDate(0, 0, -50), 10),
		},
	}

	got := AnalyzeProgress(histories, now)

	if math.Abs(got.AvgImprovement-12) > 1e-9 {
		t.Errorf("AvgImprovement = %v, want 12", got.AvgImprovement)
	}
	if got.RiskScore != riskLargeAvgGain {
		t.Errorf("RiskScore = %d, want %d", got.RiskScore, riskLargeAvgGain)
	}
}

func TestAnalyzeProgressRiskCapsAt100(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Trip all three conditions at once
	var history []store.PersonalRecord
	for i := 0; i < 6; i++ {
		history = append(history, prAt(Category5K, now.AddDate(0, 0, -i*4), 15))
	}

	got := AnalyzeProgress(map[string][]store.PersonalRecord{Category5K: history}, now)

	if got.RiskScore != 100 {
		t.Errorf("RiskScore = %d, want 100", got.RiskScore)
	}
	if len(got.Warnings) != 3 {
		t.Errorf("got %d warnings, want 3", len(got.Warnings))
	}
}

func TestAnalyzeProgressIgnoresFutureRecords(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	histories := map[string][]store.PersonalRecord{
		Category5K: {prAt(Category5K, now.AddDate(0, 0, 5), 20)},
	}

	got := AnalyzeProgress(histories, now)

	if got.RecentRecords != 0 {
		t.Errorf("RecentRecords = %d, want 0", got.RecentRecords)
	}
}

func TestAnalyzeProgressNoImprovementData(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// First-ever records carry no improvement percentage
	histories := map[string][]store.PersonalRecord{
		Category5K: {prAt(Category5K, now.AddDate(0, 0, -10), -1)},
	}

	got := AnalyzeProgress(histories, now)

	if got.AvgImprovement != 0 {
		t.Errorf("AvgImprovement = %v, want 0", got.AvgImprovement)
	}
	if got.RecentRecords != 1 {
		t.Errorf("RecentRecords = %d, want 1", got.RecentRecords)
	}
}
