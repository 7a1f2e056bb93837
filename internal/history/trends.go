// # internal/history/trends.go
package history

import (
	"fmt"
	"math"
	"time"
)

// BuildTrendReport folds a snapshot series into per-scan deltas and
// moving averages over the given window.
func BuildTrendReport(snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:    current.Timestamp,
			ScanID:       current.ScanID,
			FileCount:    current.FileCount,
			ModuleCount:  current.ModuleCount,
			TypeCount:    current.TypeCount,
			FieldCount:   current.FieldCount,
			WarningCount: current.WarningCount,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaFields = current.FieldCount - prev.FieldCount
			point.DeltaWarnings = current.WarningCount - prev.WarningCount
		}

		avgFields, avgWarnings := movingAverages(snapshots, i, window)
		point.AvgFields = round2(avgFields)
		point.AvgWarnings = round2(avgWarnings)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func movingAverages(snapshots []Snapshot, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(snapshots[index].FieldCount), float64(snapshots[index].WarningCount)
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	var fieldsTotal int
	var warningsTotal int
	count := 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		fieldsTotal += snapshots[i].FieldCount
		warningsTotal += snapshots[i].WarningCount
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(fieldsTotal) / float64(count), float64(warningsTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
