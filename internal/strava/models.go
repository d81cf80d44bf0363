package strava

import (
	"fmt"
	"time"

	"marathon-coach/internal/ingest"
	"marathon-coach/internal/store"
)

// Activity is the summary representation returned by the activities
// listing endpoint.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
	AverageSpeed       float64   `json:"average_speed"`        // m/s
	AverageHeartrate   float64   `json:"average_heartrate"`    // bpm
	MaxHeartrate       float64   `json:"max_heartrate"`        // bpm
	HasHeartrate       bool      `json:"has_heartrate"`
}

// ToRaw converts an API activity into the provider-neutral form the
// normalization pipeline consumes. Moving time is preferred over elapsed:
// long pauses should not inflate training stress.
func (a Activity) ToRaw() ingest.RawActivity {
	raw := ingest.RawActivity{
		ProviderID: fmt.Sprintf("%d", a.ID),
		Source:     "strava",
		Name:       a.Name,
		SportType:  a.SportType,
		Distance:   a.Distance,
		Duration:   float64(a.MovingTime),
	}
	if raw.SportType == "" {
		raw.SportType = a.Type
	}
	// start_date_local carries the athlete's wall clock. Weekly and daily
	// bucketing follow the athlete's calendar, so a late-evening run must
	// not slide onto the next UTC day.
	if !a.StartDateLocal.IsZero() {
		t := a.StartDateLocal
		raw.StartDate = &t
	} else if !a.StartDate.IsZero() {
		t := a.StartDate
		raw.StartDate = &t
	}
	if a.HasHeartrate && a.AverageHeartrate > 0 {
		hr := a.AverageHeartrate
		raw.AvgHeartrate = &hr
	}
	if a.HasHeartrate && a.MaxHeartrate > 0 {
		hr := a.MaxHeartrate
		raw.MaxHeartrate = &hr
	}
	if a.TotalElevationGain > 0 {
		gain := a.TotalElevationGain
		raw.ElevationGain = &gain
	}
	return raw
}

// Streams holds per-sample activity data, keyed by type.
type Streams struct {
	Time     *StreamData[int]        `json:"time"`
	LatLng   *StreamData[[2]float64] `json:"latlng"`
	Altitude *StreamData[float64]    `json:"altitude"`
}

// StreamData is a single stream series.
type StreamData[T any] struct {
	Data         []T    `json:"data"`
	SeriesType   string `json:"series_type"`
	OriginalSize int    `json:"original_size"`
	Resolution   string `json:"resolution"`
}

// TrackPoints flattens the position streams into ordered track points.
// Returns nil when no position data is present.
func (s *Streams) TrackPoints() []store.TrackPoint {
	if s == nil || s.LatLng == nil || len(s.LatLng.Data) == 0 {
		return nil
	}

	points := make([]store.TrackPoint, 0, len(s.LatLng.Data))
	for i, ll := range s.LatLng.Data {
		p := store.TrackPoint{Seq: i, Lat: ll[0], Lng: ll[1]}
		if s.Altitude != nil && i < len(s.Altitude.Data) {
			ele := s.Altitude.Data[i]
			p.Elevation = &ele
		}
		if s.Time != nil && i < len(s.Time.Data) {
			off := s.Time.Data[i]
			p.TimeOffset = &off
		}
		points = append(points, p)
	}
	return points
}
