package analysis

import (
	"fmt"
	"time"

	"marathon-coach/internal/store"
)

// PRAnalysis summarizes recent record progress and the injury risk implied
// by it. RiskScore is 0-100; Warnings explain each contribution.
type PRAnalysis struct {
	RecentRecords   int     // records in the last 90 days
	RecordsLast30   int     // records in the last 30 days
	BigImprovements int     // records improving by more than 5%
	AvgImprovement  float64 // mean percent improvement across recent records
	RiskScore       int
	Warnings        []string
}

// Risk contributions. Conditions are additive, not mutually exclusive: a
// block of racing that trips all three scores 100.
const (
	riskRapidImprovement = 35
	riskDenseRecords     = 30
	riskLargeAvgGain     = 35
)

// AnalyzeProgress scans record histories from the last 90 days and flags
// injury-risk signals: many large improvements clustered together usually
// means the athlete is ramping faster than tissue adapts.
func AnalyzeProgress(histories map[string][]store.PersonalRecord, now time.Time) PRAnalysis {
	cutoff90 := now.AddDate(0, 0, -90)
	cutoff30 := now.AddDate(0, 0, -30)

	var analysis PRAnalysis
	var pctSum float64
	var pctCount int

	for _, history := range histories {
		for _, pr := range history {
			if pr.AchievedAt.Before(cutoff90) || pr.AchievedAt.After(now) {
				continue
			}
			analysis.RecentRecords++
			if !pr.AchievedAt.Before(cutoff30) {
				analysis.RecordsLast30++
			}
			if pr.ImprovementPct != nil {
				pctSum += *pr.ImprovementPct
				pctCount++
				if *pr.ImprovementPct > 5 {
					analysis.BigImprovements++
				}
			}
		}
	}

	if pctCount > 0 {
		analysis.AvgImprovement = pctSum / float64(pctCount)
	}

	if analysis.BigImprovements >= 3 && analysis.RecordsLast30 >= 2 {
		analysis.RiskScore += riskRapidImprovement
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf(
			"%d records improved by more than 5%% recently - fitness is jumping faster than structures adapt",
			analysis.BigImprovements))
	}

	if analysis.RecordsLast30 >= 4 {
		analysis.RiskScore += riskDenseRecords
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf(
			"%d records inside 30 days - consider a consolidation week", analysis.RecordsLast30))
	}

	if analysis.AvgImprovement > 10 {
		analysis.RiskScore += riskLargeAvgGain
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf(
			"average improvement of %.1f%% is unusually steep - back off intensity before it backs you off",
			analysis.AvgImprovement))
	}

	if analysis.RiskScore > 100 {
		analysis.RiskScore = 100
	}

	return analysis
}
