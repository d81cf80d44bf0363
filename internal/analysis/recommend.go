package analysis

// WorkoutType is the recommended session for today
type WorkoutType string

const (
	WorkoutRest     WorkoutType = "rest"
	WorkoutRecovery WorkoutType = "recovery"
	WorkoutEasy     WorkoutType = "easy"
	WorkoutTempo    WorkoutType = "tempo"
	WorkoutInterval WorkoutType = "interval"
)

// Recommendation is a workout suggestion with its rationale
type Recommendation struct {
	Workout    WorkoutType
	Rationale  string
	Confidence float64 // 0..1
}

// RecommendWorkout walks an ordered decision table over (balance, fatigue,
// fitness, daysSinceRest); the first matching rule wins. Thresholds are
// fixed product constants.
func RecommendWorkout(p LoadPoint, daysSinceRest int) Recommendation {
	balance := p.Balance
	fatigue := p.AcuteLoad
	fitness := p.ChronicLoad

	switch {
	case balance < -30 || fatigue > 85 || daysSinceRest > 6:
		return Recommendation{
			Workout:    WorkoutRest,
			Rationale:  "Deep fatigue or too many consecutive training days. Take a full rest day.",
			Confidence: 0.9,
		}
	case balance < -15 || fatigue > 70:
		return Recommendation{
			Workout:    WorkoutRecovery,
			Rationale:  "Fatigue is outpacing fitness. A short, very easy jog keeps the legs moving.",
			Confidence: 0.8,
		}
	case balance < 0 || fitness < 40:
		return Recommendation{
			Workout:    WorkoutEasy,
			Rationale:  "Slightly fatigued or still building a base. Run easy and let fitness absorb.",
			Confidence: 0.7,
		}
	case balance > 15 && fitness > 60:
		return Recommendation{
			Workout:    WorkoutInterval,
			Rationale:  "Fresh and fit. A quality interval session will push top-end fitness.",
			Confidence: 0.8,
		}
	case balance > 5 && fitness > 45:
		return Recommendation{
			Workout:    WorkoutTempo,
			Rationale:  "Good form on a solid base. A tempo run builds race-specific endurance.",
			Confidence: 0.75,
		}
	default:
		return Recommendation{
			Workout:    WorkoutEasy,
			Rationale:  "Nothing stands out. An easy run is the safe default.",
			Confidence: 0.6,
		}
	}
}
