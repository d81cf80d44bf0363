package analysis

import (
	"math"
	"sort"

	"marathon-coach/internal/store"
)

// Standard race distances in meters
const (
	Distance5K       = 5000.0
	Distance10K      = 10000.0
	DistanceHalfMara = 21097.0
	DistanceMarathon = 42195.0
)

// Riegel endurance exponent. A fixed domain constant, not configurable.
const riegelExponent = 1.06

// Qualifying-run bounds for prediction input
const (
	minQualifyingDistance = 2000.0 // meters
	minQualifyingDuration = 360.0  // seconds
	minQualifyingPace     = 180.0  // sec/km, 3:00/km
	maxQualifyingPace     = 720.0  // sec/km, 12:00/km
	maxQualifyingRuns     = 50
)

// PredictionResult is a marathon finish estimate. The confidence interval
// is a literal +-1 standard deviation band (~68%); it is deliberately not
// rescaled to 95%.
type PredictionResult struct {
	Seconds                   int
	ConfidenceIntervalSeconds int
	Reliability               string // "high", "medium", "low"
	SampleSize                int
}

// SelectQualifyingRuns keeps runs plausible as prediction input: at least
// 2 km and 6 minutes, pace between 3:00 and 12:00 per km. At most the 50
// most recent qualify; the result is ordered oldest to newest so selection
// is fully deterministic. Undated runs sort before dated ones and fall off
// first when the cap applies.
func SelectQualifyingRuns(activities []store.Activity) []store.Activity {
	qualifying := make([]store.Activity, 0, len(activities))

	for _, a := range activities {
		if a.Distance < minQualifyingDistance || a.Duration < minQualifyingDuration {
			continue
		}
		pace, ok := a.PaceSecPerKm()
		if !ok {
			continue
		}
		if pace < minQualifyingPace || pace > maxQualifyingPace {
			continue
		}
		qualifying = append(qualifying, a)
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		di, dj := qualifying[i].StartDate, qualifying[j].StartDate
		switch {
		case di == nil:
			return dj != nil
		case dj == nil:
			return false
		default:
			return di.Before(*dj)
		}
	})

	if len(qualifying) > maxQualifyingRuns {
		qualifying = qualifying[len(qualifying)-maxQualifyingRuns:]
	}

	return qualifying
}

// EquivalentMarathonTime scales a run's duration to a marathon-equivalent
// time with the Riegel formula: duration * (42.195 / km)^1.06.
// Returns 0 for runs with no usable distance or duration.
func EquivalentMarathonTime(a store.Activity) float64 {
	if a.Distance <= 0 || a.Duration <= 0 {
		return 0
	}
	km := a.Distance / 1000
	return a.Duration * math.Pow(DistanceMarathon/1000/km, riegelExponent)
}

// Predict estimates the marathon finish time from recent qualifying runs.
// Fewer than 3 qualifying runs yields a zeroed low-reliability result that
// callers must read as "not enough data", not as failure.
//
// The pipeline: compute marathon equivalents, sort ascending, trim the
// bottom and top 10%, then report the trimmed mean +- one population
// standard deviation.
func Predict(activities []store.Activity) PredictionResult {
	qualifying := SelectQualifyingRuns(activities)
	n := len(qualifying)

	if n < 3 {
		return PredictionResult{Reliability: "low", SampleSize: n}
	}

	times := make([]float64, n)
	for i, a := range qualifying {
		times[i] = EquivalentMarathonTime(a)
	}
	sort.Float64s(times)

	lo := int(math.Floor(float64(n) * 0.1))
	hi := int(math.Ceil(float64(n) * 0.9))
	trimmed := times[lo:hi]

	mean := meanOf(trimmed)
	stdDev := populationStdDev(trimmed, mean)

	return PredictionResult{
		Seconds:                   int(math.Round(mean)),
		ConfidenceIntervalSeconds: int(math.Round(stdDev)),
		Reliability:               reliability(n, mean, stdDev),
		SampleSize:                n,
	}
}

func reliability(sampleSize int, mean, stdDev float64) string {
	switch {
	case sampleSize >= 10 && stdDev < mean*0.15:
		return "high"
	case sampleSize >= 5 && stdDev < mean*0.25:
		return "medium"
	default:
		return "low"
	}
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
