// Package fitfile imports Garmin FIT activity files. Session summary
// fields supply the activity totals; record messages become the GPS track.
package fitfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"marathon-coach/internal/ingest"
	"marathon-coach/internal/store"
)

const semicirclesToDeg = 180.0 / 2147483648.0 // 2^31

// invalidHR is the FIT sentinel for a missing heart rate sample
const invalidHR = 255

// ReadFile decodes a FIT file into a raw activity ready for normalization.
func ReadFile(path string) (ingest.RawActivity, error) {
	f, err := os.Open(path)
	if err != nil {
		return ingest.RawActivity{}, err
	}
	defer f.Close()

	raw, err := Read(f)
	if err != nil {
		return ingest.RawActivity{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if raw.Name == "" {
		raw.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return raw, nil
}

// Read decodes FIT data from r. Only the first session is used; a
// multisport file's later sessions are not running data we can train on.
func Read(r io.Reader) (ingest.RawActivity, error) {
	fd, err := fit.Decode(r)
	if err != nil {
		return ingest.RawActivity{}, fmt.Errorf("decoding fit: %w", err)
	}

	af, err := fd.Activity()
	if err != nil {
		return ingest.RawActivity{}, fmt.Errorf("not an activity file: %w", err)
	}
	if len(af.Sessions) == 0 {
		return ingest.RawActivity{}, fmt.Errorf("fit file has no sessions")
	}
	s := af.Sessions[0]

	// FIT profile scaling: timer time is ms, distance is cm
	raw := ingest.RawActivity{
		Source:    "fit",
		SportType: s.Sport.String(),
		Distance:  float64(s.TotalDistance) / 100.0,
		Duration:  float64(s.TotalTimerTime) / 1000.0,
	}

	if !s.StartTime.IsZero() {
		start := s.StartTime.UTC()
		raw.StartDate = &start
	}
	if s.AvgHeartRate != 0 && s.AvgHeartRate != invalidHR {
		hr := float64(s.AvgHeartRate)
		raw.AvgHeartrate = &hr
	}
	if s.MaxHeartRate != 0 && s.MaxHeartRate != invalidHR {
		hr := float64(s.MaxHeartRate)
		raw.MaxHeartrate = &hr
	}
	if s.TotalAscent != 0 {
		gain := float64(s.TotalAscent)
		raw.ElevationGain = &gain
	}

	raw.TrackPoints = trackPoints(af.Records, s.StartTime)

	return raw, nil
}

// trackPoints converts record messages with valid positions into ordered
// track points. Zero semicircle positions mean no GPS fix.
func trackPoints(records []*fit.RecordMsg, start time.Time) []store.TrackPoint {
	var points []store.TrackPoint
	for _, rec := range records {
		if rec.PositionLat.Semicircles() == 0 || rec.PositionLong.Semicircles() == 0 {
			continue
		}
		lat := float64(rec.PositionLat.Semicircles()) * semicirclesToDeg
		lng := float64(rec.PositionLong.Semicircles()) * semicirclesToDeg
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			continue
		}

		p := store.TrackPoint{Seq: len(points), Lat: lat, Lng: lng}

		// Altitude scaling: scale 5, offset 500
		if rec.Altitude != 0 {
			ele := float64(rec.Altitude)/5.0 - 500.0
			p.Elevation = &ele
		}
		if !start.IsZero() && !rec.Timestamp.IsZero() {
			off := int(rec.Timestamp.Sub(start).Seconds())
			p.TimeOffset = &off
		}

		points = append(points, p)
	}
	return points
}
