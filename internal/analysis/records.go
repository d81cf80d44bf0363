package analysis

import (
	"math"
	"time"

	"marathon-coach/internal/store"
)

// Record categories. Time categories compare lower-is-better; the rest
// higher-is-better.
const (
	Category5K           = "5k"
	Category10K          = "10k"
	CategoryHalfMarathon = "half_marathon"
	CategoryMarathon     = "marathon"
	CategoryFastest1K    = "fastest_1k"
	CategoryLongestRun   = "longest_run"
	CategoryWeeklyVolume = "weekly_volume"
	CategoryMostClimb    = "most_elevation"
)

// DistanceCategory is a race distance with its match tolerance. Longer
// races use tighter tolerances: a 4% error on a marathon would be nearly
// 1.7 km.
type DistanceCategory struct {
	Name      string
	Meters    float64
	Tolerance float64 // fraction of canonical distance
}

// DistanceCategories are the tracked race distances
var DistanceCategories = []DistanceCategory{
	{Category5K, Distance5K, 0.04},
	{Category10K, Distance10K, 0.04},
	{CategoryHalfMarathon, DistanceHalfMara, 0.02},
	{CategoryMarathon, DistanceMarathon, 0.01},
}

// IsDistanceMatch reports whether a distance falls within the category's
// tolerance band around its canonical distance.
func IsDistanceMatch(distanceMeters float64, c DistanceCategory) bool {
	return math.Abs(distanceMeters-c.Meters) <= c.Meters*c.Tolerance
}

// LowerIsBetter reports the comparison direction for a category.
func LowerIsBetter(category string) bool {
	switch category {
	case Category5K, Category10K, CategoryHalfMarathon, CategoryMarathon, CategoryFastest1K:
		return true
	default:
		return false
	}
}

// Ledger is the caller-held record state: each category's history in
// append order, newest last. Detection never mutates it; callers append
// the returned records themselves.
type Ledger map[string][]store.PersonalRecord

// CurrentBest returns the category's current record, or nil if none exists.
func (l Ledger) CurrentBest(category string) *store.PersonalRecord {
	history := l[category]
	if len(history) == 0 {
		return nil
	}
	return &history[len(history)-1]
}

// Append returns a copy of the ledger with the record appended to its
// category. The receiver is left untouched.
func (l Ledger) Append(pr store.PersonalRecord) Ledger {
	out := make(Ledger, len(l)+1)
	for cat, history := range l {
		out[cat] = history
	}
	out[pr.Category] = append(append([]store.PersonalRecord{}, out[pr.Category]...), pr)
	return out
}

// DetectRecords scans one activity against the ledger and returns the new
// records it sets. recent supplies context for the 7-day volume category:
// it should hold the athlete's activities around the candidate's date (the
// candidate itself may be included or not; it is counted once either way).
// Undated activities never set records.
func DetectRecords(a store.Activity, recent []store.Activity, ledger Ledger) []store.PersonalRecord {
	if a.StartDate == nil {
		return nil
	}

	confidence := recordConfidence(a)
	var records []store.PersonalRecord

	emit := func(category string, value float64, conf string) {
		best := ledger.CurrentBest(category)
		if !improves(value, best, LowerIsBetter(category)) {
			return
		}
		records = append(records, newRecord(category, value, conf, a, best))
	}

	// Race distance categories need a usable time
	if a.Duration > 0 {
		for _, c := range DistanceCategories {
			if IsDistanceMatch(a.Distance, c) {
				emit(c.Name, a.Duration, confidence)
			}
		}
	}

	// Fastest estimated 1K, from whole-activity pace. Short activities give
	// noisy estimates, so confidence is capped below high until 5 km.
	if a.Distance >= 1000 {
		if pace, ok := a.PaceSecPerKm(); ok {
			conf := confidence
			if a.Distance < 5000 && conf == "high" {
				conf = "medium"
			}
			emit(CategoryFastest1K, pace, conf)
		}
	}

	if a.Distance > 0 {
		emit(CategoryLongestRun, a.Distance, confidence)
	}

	if volume := weeklyVolumeKm(a, recent); volume > 0 {
		emit(CategoryWeeklyVolume, volume, confidence)
	}

	if a.ElevationGain != nil && *a.ElevationGain > 0 {
		emit(CategoryMostClimb, *a.ElevationGain, confidence)
	}

	return records
}

// improves applies strict improvement: ties never set a record. An empty
// category always qualifies.
func improves(value float64, best *store.PersonalRecord, lowerBetter bool) bool {
	if best == nil {
		return true
	}
	if lowerBetter {
		return value < best.Value
	}
	return value > best.Value
}

func newRecord(category string, value float64, confidence string, a store.Activity, best *store.PersonalRecord) store.PersonalRecord {
	pr := store.PersonalRecord{
		Category:   category,
		ActivityID: a.ID,
		Value:      value,
		Confidence: confidence,
		AchievedAt: *a.StartDate,
	}

	if best != nil {
		prev := best.Value
		pr.PreviousValue = &prev

		abs := math.Abs(prev - value)
		pr.ImprovementAbs = &abs

		// Percent improvement is undefined for a zero previous value
		if prev != 0 {
			pct := abs / prev * 100
			pr.ImprovementPct = &pct
		}
	}

	return pr
}

// weeklyVolumeKm sums distance over the 7 days ending at the activity's
// date, counting the candidate once.
func weeklyVolumeKm(a store.Activity, recent []store.Activity) float64 {
	end := *a.StartDate
	start := end.Add(-7 * 24 * time.Hour)

	total := a.Distance / 1000
	for _, other := range recent {
		if other.ID == a.ID || other.StartDate == nil {
			continue
		}
		d := *other.StartDate
		if d.Before(start) || d.After(end) {
			continue
		}
		total += other.Distance / 1000
	}
	return total
}

// Confidence scoring weights. Each data-quality signal present adds its
// weight; the total is thresholded into tiers.
const (
	weightGPSTrack      = 0.3
	weightCoreFields    = 0.3
	weightPlausiblePace = 0.25
	weightHeartrate     = 0.15

	confidenceHighMin   = 0.75
	confidenceMediumMin = 0.5
)

func recordConfidence(a store.Activity) string {
	var score float64

	if a.HasTrack {
		score += weightGPSTrack
	}
	if a.StartDate != nil && a.Distance > 0 && a.Duration > 0 {
		score += weightCoreFields
	}
	if pace, ok := a.PaceSecPerKm(); ok && pace >= 180 && pace <= 480 {
		score += weightPlausiblePace
	}
	if a.AvgHeartrate != nil {
		score += weightHeartrate
	}

	switch {
	case score >= confidenceHighMin:
		return "high"
	case score >= confidenceMediumMin:
		return "medium"
	default:
		return "low"
	}
}
