// Package export writes the activity history to Parquet for analysis in
// external tools.
package export

import (
	"fmt"
	"math"
	"os"
	"time"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"marathon-coach/internal/store"
)

type activityRow struct {
	ID            string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name          string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Source        string  `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	SportType     string  `parquet:"name=sport_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	StartDateISO  string  `parquet:"name=start_date_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DistanceM     float64 `parquet:"name=distance_m, type=DOUBLE"`
	DurationS     float64 `parquet:"name=duration_s, type=DOUBLE"`
	PaceSecPerKm  float64 `parquet:"name=pace_sec_per_km, type=DOUBLE"`
	AvgHRBPM      float64 `parquet:"name=avg_hr_bpm, type=DOUBLE"`
	MaxHRBPM      float64 `parquet:"name=max_hr_bpm, type=DOUBLE"`
	ElevationGain float64 `parquet:"name=elevation_gain_m, type=DOUBLE"`
	HasTrack      bool    `parquet:"name=has_track, type=BOOLEAN"`
}

// MarshalActivities renders activities as a Snappy-compressed Parquet
// blob. Missing optional fields become NaN, which Parquet readers surface
// as nulls after a standard NaN filter.
func MarshalActivities(activities []store.Activity) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(activityRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, a := range activities {
		row := activityRow{
			ID:            a.ID,
			Name:          a.Name,
			Source:        a.Source,
			SportType:     a.SportType,
			DistanceM:     a.Distance,
			DurationS:     a.Duration,
			PaceSecPerKm:  math.NaN(),
			AvgHRBPM:      ptrOrNaN(a.AvgHeartrate),
			MaxHRBPM:      ptrOrNaN(a.MaxHeartrate),
			ElevationGain: ptrOrNaN(a.ElevationGain),
			HasTrack:      a.HasTrack,
		}
		if a.StartDate != nil {
			row.StartDateISO = a.StartDate.UTC().Format(time.RFC3339)
		}
		if pace, ok := a.PaceSecPerKm(); ok {
			row.PaceSecPerKm = pace
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

// WriteActivitiesFile exports every stored activity to a Parquet file.
func WriteActivitiesFile(db *store.DB, path string) (int, error) {
	activities, err := db.ListAllActivities()
	if err != nil {
		return 0, fmt.Errorf("loading activities: %w", err)
	}

	blob, err := MarshalActivities(activities)
	if err != nil {
		return 0, fmt.Errorf("marshaling parquet: %w", err)
	}

	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return 0, err
	}
	return len(activities), nil
}

func ptrOrNaN(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
