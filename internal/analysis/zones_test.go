package analysis

import "testing"

func TestPaceZonesNilWithoutPrediction(t *testing.T) {
	if got := PaceZones(PredictionResult{}, "intermediate"); got != nil {
		t.Errorf("zero prediction produced %d zones, want nil", len(got))
	}
}

func TestPaceZonesOrderingAndBounds(t *testing.T) {
	// 3:30 marathon: race pace just under 5:00/km
	pred := PredictionResult{Seconds: 12600, Reliability: "high", SampleSize: 12}

	zones := PaceZones(pred, "intermediate")

	if len(zones) != 5 {
		t.Fatalf("got %d zones, want 5", len(zones))
	}

	wantOrder := []string{"recovery", "easy", "marathon", "threshold", "interval"}
	for i, z := range zones {
		if z.Name != wantOrder[i] {
			t.Errorf("zone %d = %s, want %s", i, z.Name, wantOrder[i])
		}
		if z.Min > z.Max {
			t.Errorf("%s: min %v above max %v", z.Name, z.Min, z.Max)
		}
	}

	// Slower zones carry higher sec/km values; adjacent zones may share a
	// boundary but never overlap
	for i := 1; i < len(zones); i++ {
		if zones[i].Max > zones[i-1].Min {
			t.Errorf("%s overlaps %s", zones[i].Name, zones[i-1].Name)
		}
	}

	marathonPace := 12600.0 / (DistanceMarathon / 1000)
	mz := zones[2]
	if mz.Min > marathonPace || mz.Max < marathonPace {
		t.Errorf("marathon zone [%v, %v] does not contain race pace %v", mz.Min, mz.Max, marathonPace)
	}
}

func TestPaceZonesTrainingLevel(t *testing.T) {
	pred := PredictionResult{Seconds: 12600, Reliability: "high", SampleSize: 12}

	def := PaceZones(pred, "intermediate")
	beginner := PaceZones(pred, "beginner")
	advanced := PaceZones(pred, "advanced")

	// Level only moves the easy side; quality zones stay anchored to race pace
	for i, z := range def {
		if z.Name == "recovery" || z.Name == "easy" {
			if beginner[i].Min <= z.Min {
				t.Errorf("%s: beginner min %v should exceed default %v", z.Name, beginner[i].Min, z.Min)
			}
			if advanced[i].Min >= z.Min {
				t.Errorf("%s: advanced min %v should undercut default %v", z.Name, advanced[i].Min, z.Min)
			}
		} else {
			if beginner[i] != z || advanced[i] != z {
				t.Errorf("%s: level adjustment must not move a quality zone", z.Name)
			}
		}
	}
}
