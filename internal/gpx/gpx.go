// Package gpx imports GPX 1.1 track files as activities. Distance is
// derived from the track geometry, duration from point timestamps.
package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"marathon-coach/internal/ingest"
	"marathon-coach/internal/store"
)

type gpxFile struct {
	XMLName  xml.Name `xml:"gpx"`
	Creator  string   `xml:"creator,attr"`
	Metadata struct {
		Time string `xml:"time"`
	} `xml:"metadata"`
	Tracks []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string `xml:"name"`
	Type     string `xml:"type"`
	Segments []struct {
		Points []gpxPoint `xml:"trkpt"`
	} `xml:"trkseg"`
}

type gpxPoint struct {
	Lat        float64  `xml:"lat,attr"`
	Lon        float64  `xml:"lon,attr"`
	Elevation  *float64 `xml:"ele"`
	Time       string   `xml:"time"`
	Extensions struct {
		TPX struct {
			HR int `xml:"hr"`
		} `xml:"TrackPointExtension"`
	} `xml:"extensions"`
}

// ReadFile parses a GPX file into a raw activity ready for normalization.
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

// Read parses GPX 1.1 from r. All track segments are flattened into one
// activity; segment boundaries carry no training meaning here.
func Read(r io.Reader) (ingest.RawActivity, error) {
	var doc gpxFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return ingest.RawActivity{}, fmt.Errorf("decoding gpx: %w", err)
	}
	if len(doc.Tracks) == 0 {
		return ingest.RawActivity{}, fmt.Errorf("gpx file has no tracks")
	}

	raw := ingest.RawActivity{
		Source:    "gpx",
		Name:      doc.Tracks[0].Name,
		SportType: doc.Tracks[0].Type,
	}

	var points []gpxPoint
	var distance, gain, hrSum float64
	var hrCount int
	var firstTime, lastTime time.Time
	var prevLat, prevLon float64
	var prevEle *float64
	var havePrev bool

	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			points = append(points, seg.Points...)
		}
	}
	if len(points) == 0 {
		return ingest.RawActivity{}, fmt.Errorf("gpx file has no track points")
	}

	for i, p := range points {
		if havePrev {
			distance += haversine(prevLat, prevLon, p.Lat, p.Lon)
			if prevEle != nil && p.Elevation != nil && *p.Elevation > *prevEle {
				gain += *p.Elevation - *prevEle
			}
		}
		prevLat, prevLon, prevEle, havePrev = p.Lat, p.Lon, p.Elevation, true

		if p.Extensions.TPX.HR > 0 {
			hrSum += float64(p.Extensions.TPX.HR)
			hrCount++
		}

		if ts, err := time.Parse(time.RFC3339, p.Time); err == nil {
			if firstTime.IsZero() {
				firstTime = ts
			}
			lastTime = ts
		}

		tp := store.TrackPoint{Seq: i, Lat: p.Lat, Lng: p.Lon, Elevation: p.Elevation}
		if !firstTime.IsZero() {
			if ts, err := time.Parse(time.RFC3339, p.Time); err == nil {
				off := int(ts.Sub(firstTime).Seconds())
				tp.TimeOffset = &off
			}
		}
		raw.TrackPoints = append(raw.TrackPoints, tp)
	}

	raw.Distance = distance
	if gain > 0 {
		raw.ElevationGain = &gain
	}
	if hrCount > 0 {
		avg := hrSum / float64(hrCount)
		raw.AvgHeartrate = &avg
	}
	if !firstTime.IsZero() {
		start := firstTime
		raw.StartDate = &start
		if lastTime.After(firstTime) {
			raw.Duration = lastTime.Sub(firstTime).Seconds()
		}
	}

	return raw, nil
}

// haversine returns the great-circle distance between two coordinates in
// meters.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // meters

	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
