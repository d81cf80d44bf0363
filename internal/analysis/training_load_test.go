package analysis

import (
	"math"
	"testing"
	"time"

	"marathon-coach/internal/store"
)

func TestIntensityFactor(t *testing.T) {
	tests := []struct {
		name       string
		activity   store.Activity
		threshold  float64
		wantFactor float64
		wantSource IntensitySource
	}{
		{
			name:       "threshold effort from HR",
			activity:   store.Activity{Duration: 3600, Distance: 12000, AvgHeartrate: floatPtr(165)},
			threshold:  165,
			wantFactor: 1.0,
			wantSource: IntensityFromHeartRate,
		},
		{
			name:       "above threshold capped at 1.2",
			activity:   store.Activity{Duration: 1800, Distance: 6000, AvgHeartrate: floatPtr(220)},
			threshold:  165,
			wantFactor: 1.2,
			wantSource: IntensityFromHeartRate,
		},
		{
			name:       "easy effort from HR",
			activity:   store.Activity{Duration: 3600, AvgHeartrate: floatPtr(132)},
			threshold:  165,
			wantFactor: 0.8,
			wantSource: IntensityFromHeartRate,
		},
		{
			name:       "no HR falls back to pace",
			activity:   store.Activity{Duration: 3100, Distance: 10000}, // 5:10/km
			threshold:  165,
			wantFactor: 0.62,
			wantSource: IntensityFromPace,
		},
		{
			name:       "fast pace band",
			activity:   store.Activity{Duration: 2000, Distance: 10000}, // 3:20/km
			threshold:  0,
			wantFactor: 1.0,
			wantSource: IntensityFromPace,
		},
		{
			name:       "slow pace band",
			activity:   store.Activity{Duration: 3600, Distance: 10000}, // 6:00/km
			threshold:  0,
			wantFactor: 0.55,
			wantSource: IntensityFromPace,
		},
		{
			name:       "no HR and no pace",
			activity:   store.Activity{Duration: 3600},
			threshold:  165,
			wantFactor: 0,
			wantSource: IntensityUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor, source := IntensityFactor(tt.activity, tt.threshold)
			if math.Abs(factor-tt.wantFactor) > 1e-9 {
				t.Errorf("factor = %v, want %v", factor, tt.wantFactor)
			}
			if source != tt.wantSource {
				t.Errorf("source = %v, want %v", source, tt.wantSource)
			}
		})
	}
}

func TestDailyStress(t *testing.T) {
	// One hour exactly at threshold: 1.0 * 1.0^2 * 100 = 100
	threshold := store.Activity{Duration: 3600, Distance: 12000, AvgHeartrate: floatPtr(165)}
	if got := DailyStress(threshold, 165); math.Abs(got-100) > 1e-9 {
		t.Errorf("threshold hour stress = %v, want 100", got)
	}

	// Half hour at IF 0.8: 0.5 * 0.64 * 100 = 32
	easy := store.Activity{Duration: 1800, AvgHeartrate: floatPtr(132)}
	if got := DailyStress(easy, 165); math.Abs(got-32) > 1e-9 {
		t.Errorf("easy half hour stress = %v, want 32", got)
	}

	// No duration scores zero
	if got := DailyStress(store.Activity{Distance: 5000}, 165); got != 0 {
		t.Errorf("zero duration stress = %v, want 0", got)
	}
}

func TestBuildDailySeriesDensifies(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r := DateRange{From: from, To: from.AddDate(0, 0, 6)}

	activities := []store.Activity{
		run("a", from.Add(8*time.Hour), 10000, 3600),                  // day 1
		run("b", from.AddDate(0, 0, 3).Add(18*time.Hour), 5000, 1800), // day 4
		run("c", from.AddDate(0, 0, 3).Add(7*time.Hour), 5000, 1800),  // day 4, doubles
		run("outside", from.AddDate(0, 0, 30), 5000, 1800),
	}

	series := BuildDailySeries(activities, r, 165)

	if len(series) != 7 {
		t.Fatalf("series has %d days, want 7", len(series))
	}
	if series["2025-06-02"] != 0 {
		t.Errorf("rest day stress = %v, want 0", series["2025-06-02"])
	}
	if series["2025-06-04"] <= 0 {
		t.Error("double day should have positive stress")
	}
	single := DailyStress(activities[1], 165)
	if math.Abs(series["2025-06-04"]-2*single) > 1e-9 {
		t.Errorf("double day stress = %v, want %v", series["2025-06-04"], 2*single)
	}
}

func TestComputeLoadCurveAllZero(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r := DateRange{From: from, To: from.AddDate(0, 0, 59)}

	series := BuildDailySeries(nil, r, 165)
	points := ComputeLoadCurve(series, r)

	if len(points) != 60 {
		t.Fatalf("got %d points, want 60", len(points))
	}
	for _, p := range points {
		if p.ChronicLoad != 0 || p.AcuteLoad != 0 || p.Balance != 0 {
			t.Fatalf("zero series produced nonzero load at %v: %+v", p.Date, p)
		}
	}
}

func TestComputeLoadCurveEMAStep(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r := DateRange{From: from, To: from.AddDate(0, 0, 2)}

	series := map[string]float64{
		"2025-06-01": 100,
		"2025-06-02": 0,
		"2025-06-03": 0,
	}

	points := ComputeLoadCurve(series, r)

	chronicAlpha := 2.0 / 43.0
	acuteAlpha := 2.0 / 8.0

	wantChronic := chronicAlpha * 100
	wantAcute := acuteAlpha * 100
	if math.Abs(points[0].ChronicLoad-wantChronic) > 1e-9 {
		t.Errorf("day 1 chronic = %v, want %v", points[0].ChronicLoad, wantChronic)
	}
	if math.Abs(points[0].AcuteLoad-wantAcute) > 1e-9 {
		t.Errorf("day 1 acute = %v, want %v", points[0].AcuteLoad, wantAcute)
	}
	if math.Abs(points[0].Balance-(wantChronic-wantAcute)) > 1e-9 {
		t.Errorf("day 1 balance = %v, want %v", points[0].Balance, wantChronic-wantAcute)
	}

	// Acute decays faster than chronic after the spike
	if points[2].AcuteLoad >= points[1].AcuteLoad {
		t.Error("acute load should decay on rest days")
	}
	if points[2].Balance <= points[0].Balance {
		t.Error("balance should recover as fatigue decays")
	}
}

func TestRecommendWorkout(t *testing.T) {
	tests := []struct {
		name          string
		point         LoadPoint
		daysSinceRest int
		want          WorkoutType
	}{
		{"deep negative balance", LoadPoint{ChronicLoad: 50, AcuteLoad: 85, Balance: -35}, 2, WorkoutRest},
		{"high fatigue", LoadPoint{ChronicLoad: 60, AcuteLoad: 90, Balance: -30}, 2, WorkoutRest},
		{"too many days on", LoadPoint{ChronicLoad: 50, AcuteLoad: 40, Balance: 10}, 7, WorkoutRest},
		{"moderate negative balance", LoadPoint{ChronicLoad: 50, AcuteLoad: 66, Balance: -16}, 2, WorkoutRecovery},
		{"fatigue above 70", LoadPoint{ChronicLoad: 65, AcuteLoad: 75, Balance: -10}, 2, WorkoutRecovery},
		{"slightly negative balance", LoadPoint{ChronicLoad: 55, AcuteLoad: 60, Balance: -5}, 2, WorkoutEasy},
		{"low fitness", LoadPoint{ChronicLoad: 30, AcuteLoad: 20, Balance: 10}, 2, WorkoutEasy},
		{"fresh and fit", LoadPoint{ChronicLoad: 70, AcuteLoad: 50, Balance: 20}, 2, WorkoutInterval},
		{"good form solid base", LoadPoint{ChronicLoad: 50, AcuteLoad: 42, Balance: 8}, 2, WorkoutTempo},
		{"nothing stands out", LoadPoint{ChronicLoad: 45, AcuteLoad: 42, Balance: 3}, 2, WorkoutEasy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecommendWorkout(tt.point, tt.daysSinceRest)
			if got.Workout != tt.want {
				t.Errorf("RecommendWorkout() = %v, want %v", got.Workout, tt.want)
			}
			if got.Rationale == "" {
				t.Error("recommendation should carry a rationale")
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("confidence = %v, want in (0, 1]", got.Confidence)
			}
		})
	}
}

// Rules are ordered: a point matching both the rest rule and the interval
// rule must rest.
func TestRecommendWorkoutFirstMatchWins(t *testing.T) {
	p := LoadPoint{ChronicLoad: 90, AcuteLoad: 86, Balance: 20}
	if got := RecommendWorkout(p, 0); got.Workout != WorkoutRest {
		t.Errorf("high fatigue should win over good balance, got %v", got.Workout)
	}
}
