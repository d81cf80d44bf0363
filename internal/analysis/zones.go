package analysis

import "math"

// PaceZone is one personalized training zone, bounds in sec/km (Min is the
// faster bound).
type PaceZone struct {
	Name string
	Min  float64
	Max  float64
}

// zone multipliers relative to predicted marathon pace. Easy running sits
// well above race pace; intervals well below.
type zoneSpec struct {
	name     string
	min, max float64
}

var zoneSpecs = []zoneSpec{
	{"recovery", 1.30, 1.50},
	{"easy", 1.15, 1.30},
	{"marathon", 0.99, 1.06},
	{"threshold", 0.92, 0.97},
	{"interval", 0.84, 0.90},
}

// levelAdjustment widens the easy zones for beginners, who should spend
// more time far from race pace, and tightens them for advanced runners.
func levelAdjustment(trainingLevel string) float64 {
	switch trainingLevel {
	case "beginner":
		return 1.04
	case "advanced":
		return 0.98
	default:
		return 1.0
	}
}

// PaceZones derives the five training zones from a predicted marathon
// time. A zeroed prediction (insufficient data) yields nil; callers show
// "sync more runs" instead.
func PaceZones(prediction PredictionResult, trainingLevel string) []PaceZone {
	if prediction.Seconds <= 0 {
		return nil
	}

	marathonPace := float64(prediction.Seconds) / (DistanceMarathon / 1000)
	adj := levelAdjustment(trainingLevel)

	zones := make([]PaceZone, 0, len(zoneSpecs))
	for _, spec := range zoneSpecs {
		min := marathonPace * spec.min
		max := marathonPace * spec.max
		if spec.min > 1 { // only the easy side stretches with level
			min *= adj
			max *= adj
		}
		zones = append(zones, PaceZone{
			Name: spec.name,
			Min:  math.Round(min),
			Max:  math.Round(max),
		})
	}

	return zones
}
