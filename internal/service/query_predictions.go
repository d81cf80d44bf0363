package service

import (
	"errors"
	"fmt"
	"time"

	"marathon-coach/internal/analysis"
	"marathon-coach/internal/store"
)

// PredictionData contains everything for the predictions screen.
type PredictionData struct {
	Current *store.PredictionSnapshot
	History []store.PredictionSnapshot
	Zones   []analysis.PaceZone

	// Goal comparison, set when the athlete configured a goal time.
	// Positive gap means the prediction is slower than the goal.
	GoalSeconds    int
	GoalGapSeconds int
	HasGoal        bool

	// Days until the configured race, when set
	DaysToRace int
	HasRace    bool
}

// GetPredictionData loads the latest prediction, its history, and the
// derived pace zones.
func (q *QueryService) GetPredictionData() (*PredictionData, error) {
	return q.predictionsAt(time.Now())
}

func (q *QueryService) predictionsAt(now time.Time) (*PredictionData, error) {
	data := &PredictionData{}

	current, err := q.store.LatestPrediction()
	if err != nil && !errors.Is(err, store.ErrNoPrediction) {
		return nil, err
	}
	data.Current = current

	history, err := q.store.PredictionHistory(PredictionHistoryLimit)
	if err != nil {
		return nil, err
	}
	data.History = history

	if current != nil {
		result := analysis.PredictionResult{
			Seconds:                   current.Seconds,
			ConfidenceIntervalSeconds: current.ConfidenceIntervalSeconds,
			Reliability:               current.Reliability,
			SampleSize:                current.SampleSize,
		}
		data.Zones = analysis.PaceZones(result, q.athlete.TrainingLevel)

		if goal, ok := q.athlete.GoalTimeSeconds(); ok {
			data.HasGoal = true
			data.GoalSeconds = goal
			data.GoalGapSeconds = current.Seconds - goal
		}
	}

	if raceDate, ok := q.athlete.ParsedRaceDate(); ok {
		data.HasRace = true
		data.DaysToRace = int(raceDate.Sub(now).Hours() / 24)
	}

	return data, nil
}

// FormatDuration renders seconds as "H:MM:SS" for display.
func FormatDuration(seconds int) string {
	neg := ""
	if seconds < 0 {
		neg = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%s%d:%02d:%02d", neg, h, m, s)
}

// FormatPace renders seconds-per-km as "M:SS/km".
func FormatPace(secPerKm float64) string {
	total := int(secPerKm + 0.5)
	return fmt.Sprintf("%d:%02d/km", total/60, total%60)
}
