package analysis

import (
	"time"

	"marathon-coach/internal/store"
)

// EMA time constants in days for the load model. Chronic load ("fitness")
// responds over six weeks, acute load ("fatigue") over one.
const (
	ChronicLoadDays = 42
	AcuteLoadDays   = 7
)

// LoadPoint is one day of the training-load curve
type LoadPoint struct {
	Date        time.Time
	DailyStress float64
	ChronicLoad float64 // fitness
	AcuteLoad   float64 // fatigue
	Balance     float64 // form: chronic - acute
}

// IntensitySource tags where an intensity factor came from. Heart-rate data
// is preferred when present; the pace estimate is the fallback.
type IntensitySource int

const (
	IntensityFromHeartRate IntensitySource = iota
	IntensityFromPace
	IntensityUnknown
)

// maxIntensityFactor caps the HR-derived intensity: above-threshold efforts
// saturate rather than exploding the quadratic stress term.
const maxIntensityFactor = 1.2

// IntensityFactor resolves the activity's intensity with the HR-first,
// pace-fallback policy. The returned source says which path was taken.
func IntensityFactor(a store.Activity, thresholdHR float64) (float64, IntensitySource) {
	if a.AvgHeartrate != nil && thresholdHR > 0 {
		factor := *a.AvgHeartrate / thresholdHR
		if factor > maxIntensityFactor {
			factor = maxIntensityFactor
		}
		return factor, IntensityFromHeartRate
	}

	pace, ok := a.PaceSecPerKm()
	if !ok {
		return 0, IntensityUnknown
	}
	return paceIntensity(pace), IntensityFromPace
}

// paceIntensity maps pace (sec/km) onto discrete intensity bands. The bands
// approximate how hard a given pace feels for a recreational marathoner.
func paceIntensity(paceSecKm float64) float64 {
	switch {
	case paceSecKm < 210: // faster than 3:30/km
		return 1.0
	case paceSecKm < 240: // 3:30-4:00
		return 0.9
	case paceSecKm < 270: // 4:00-4:30
		return 0.8
	case paceSecKm < 300: // 4:30-5:00
		return 0.72
	case paceSecKm < 330: // 5:00-5:30
		return 0.62
	default: // slower than 5:30/km
		return 0.55
	}
}

// DailyStress computes the training stress of a single activity:
// durationHours * IF^2 * 100, the TSS-style quadratic in intensity.
// Activities with no usable intensity (no HR, no pace) score 0.
func DailyStress(a store.Activity, thresholdHR float64) float64 {
	if a.Duration <= 0 {
		return 0
	}

	factor, source := IntensityFactor(a, thresholdHR)
	if source == IntensityUnknown {
		return 0
	}

	hours := a.Duration / 3600
	return hours * factor * factor * 100
}

// DateRange is an inclusive day range
type DateRange struct {
	From time.Time
	To   time.Time
}

// Days iterates the range's calendar days in order
func (r DateRange) Days() []time.Time {
	from := truncateToDay(r.From)
	to := truncateToDay(r.To)

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// BuildDailySeries sums per-activity stress by calendar day over the range.
// Every day in the range has an entry; days without activity map to 0, so
// the EMA recursion sees a dense series. Undated activities are skipped.
func BuildDailySeries(activities []store.Activity, r DateRange, thresholdHR float64) map[string]float64 {
	series := make(map[string]float64)
	for _, day := range r.Days() {
		series[dayKey(day)] = 0
	}

	for _, a := range activities {
		if a.StartDate == nil {
			continue
		}
		key := dayKey(*a.StartDate)
		if _, inRange := series[key]; !inRange {
			continue
		}
		series[key] += DailyStress(a, thresholdHR)
	}

	return series
}

// ComputeLoadCurve applies the chronic (42-day) and acute (7-day) EMAs over
// the densified daily series in date order. Both EMAs are seeded at 0 and
// run forward from the start of the range, so callers wanting a meaningful
// chronic figure must include enough lead-in days (>= 42) before the window
// they display.
func ComputeLoadCurve(series map[string]float64, r DateRange) []LoadPoint {
	chronicAlpha := 2.0 / (ChronicLoadDays + 1.0)
	acuteAlpha := 2.0 / (AcuteLoadDays + 1.0)

	var points []LoadPoint
	var chronic, acute float64

	for _, day := range r.Days() {
		stress := series[dayKey(day)]

		chronic = chronic + chronicAlpha*(stress-chronic)
		acute = acute + acuteAlpha*(stress-acute)

		points = append(points, LoadPoint{
			Date:        day,
			DailyStress: stress,
			ChronicLoad: chronic,
			AcuteLoad:   acute,
			Balance:     chronic - acute,
		})
	}

	return points
}
