package service

import (
	"time"

	"marathon-coach/internal/analysis"
	"marathon-coach/internal/config"
	"marathon-coach/internal/store"
)

// QueryService provides read-only queries for the TUI.
type QueryService struct {
	store   *store.DB
	athlete config.AthleteConfig
}

// NewQueryService creates a new query service.
func NewQueryService(db *store.DB, athlete config.AthleteConfig) *QueryService {
	return &QueryService{store: db, athlete: athlete}
}

// DashboardData contains all data needed for the dashboard screen.
type DashboardData struct {
	// Current training state
	CurrentFitness float64 // chronic load
	CurrentFatigue float64 // acute load
	CurrentForm    float64 // balance
	Recommendation analysis.Recommendation

	// This week
	WeekRunCount int
	WeekDistance float64 // km
	WeekTime     float64 // seconds

	RecentActivities []store.Activity

	// For charts
	WeeklyDistance []float64 // last 12 weeks, km
	WeeklyLabels   []string  // e.g. "Jan 06"
	FormHistory    []float64 // daily balance, last 90 days
}

// GetDashboardData assembles the dashboard from the store.
func (q *QueryService) GetDashboardData() (*DashboardData, error) {
	return q.dashboardAt(time.Now())
}

// dashboardAt is the clock-injected worker behind GetDashboardData.
func (q *QueryService) dashboardAt(now time.Time) (*DashboardData, error) {
	data := &DashboardData{}

	recent, err := q.store.ListActivities(RecentActivitiesLimit, 0)
	if err != nil {
		return nil, err
	}
	data.RecentActivities = recent

	all, err := q.store.ListAllActivities()
	if err != nil {
		return nil, err
	}

	data.WeekRunCount, data.WeekDistance, data.WeekTime = weekStats(all, now)
	data.WeeklyDistance, data.WeeklyLabels = weeklyChart(all, now, DashboardWeeks)

	curve := q.loadCurve(all, now)
	if len(curve) > 0 {
		latest := curve[len(curve)-1]
		data.CurrentFitness = latest.ChronicLoad
		data.CurrentFatigue = latest.AcuteLoad
		data.CurrentForm = latest.Balance

		data.FormHistory = make([]float64, 0, len(curve))
		for _, p := range curve {
			data.FormHistory = append(data.FormHistory, p.Balance)
		}

		data.Recommendation = analysis.RecommendWorkout(latest, daysSinceRest(curve))
	}

	return data, nil
}

// loadCurve computes the last 90 days of training load. The EMA is seeded
// from a 42-day lead-in before the display window so the first visible day
// already carries history.
func (q *QueryService) loadCurve(all []store.Activity, now time.Time) []analysis.LoadPoint {
	display := analysis.DateRange{
		From: now.AddDate(0, 0, -89),
		To:   now,
	}
	seeded := analysis.DateRange{
		From: display.From.AddDate(0, 0, -analysis.ChronicLoadDays),
		To:   display.To,
	}

	series := analysis.BuildDailySeries(all, seeded, q.athlete.ThresholdHR)
	curve := analysis.ComputeLoadCurve(series, seeded)
	if len(curve) > analysis.ChronicLoadDays {
		curve = curve[analysis.ChronicLoadDays:]
	}
	return curve
}

// weekStats sums the Monday-anchored current week.
func weekStats(all []store.Activity, now time.Time) (count int, km, seconds float64) {
	weekStart := analysis.WeekStart(now)
	for _, a := range all {
		if a.StartDate == nil || a.StartDate.Before(weekStart) || a.StartDate.After(now) {
			continue
		}
		count++
		km += a.Distance / 1000
		seconds += a.Duration
	}
	return count, km, seconds
}

// weeklyChart builds a dense n-week mileage series ending this week.
// Buckets are matched by calendar date, never time.Time equality: stored
// activity dates carry UTC while now is in the caller's zone, and the two
// never compare equal as map keys.
func weeklyChart(all []store.Activity, now time.Time, weeks int) ([]float64, []string) {
	buckets := analysis.WeeklyDistance(all)
	byWeek := make(map[string]float64, len(buckets))
	for _, b := range buckets {
		byWeek[weekKey(b.WeekStart)] = b.TotalKm
	}

	values := make([]float64, 0, weeks)
	labels := make([]string, 0, weeks)
	thisWeek := analysis.WeekStart(now)
	for i := weeks - 1; i >= 0; i-- {
		ws := thisWeek.AddDate(0, 0, -7*i)
		values = append(values, byWeek[weekKey(ws)])
		labels = append(labels, ws.Format("Jan 02"))
	}
	return values, labels
}

func weekKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// daysSinceRest counts trailing days with nonzero stress. Capped at the
// curve length; a fully loaded history reads as "no recent rest".
func daysSinceRest(curve []analysis.LoadPoint) int {
	days := 0
	for i := len(curve) - 1; i >= 0; i-- {
		if curve[i].DailyStress == 0 {
			break
		}
		days++
	}
	return days
}
