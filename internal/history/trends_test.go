// # internal/history/trends_test.go
package history

import (
	"testing"
	"time"
)

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []Snapshot{
		{ScanID: "a", Timestamp: base, FileCount: 2, FieldCount: 10, WarningCount: 2},
		{ScanID: "b", Timestamp: base.Add(time.Hour), FileCount: 3, FieldCount: 14, WarningCount: 0},
	}

	report, err := BuildTrendReport(snapshots, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if report.ScanCount != 2 {
		t.Fatalf("Expected 2 points, got %d", report.ScanCount)
	}

	first := report.Points[0]
	if first.DeltaFields != 0 || first.DeltaWarnings != 0 {
		t.Errorf("First point must have zero deltas: %+v", first)
	}

	second := report.Points[1]
	if second.DeltaFiles != 1 || second.DeltaFields != 4 || second.DeltaWarnings != -2 {
		t.Errorf("Unexpected deltas: %+v", second)
	}
	if second.AvgFields != 12 || second.AvgWarnings != 1 {
		t.Errorf("Unexpected moving averages: %+v", second)
	}
}

func TestBuildTrendReportEmpty(t *testing.T) {
	if _, err := BuildTrendReport(nil, time.Hour); err == nil {
		t.Error("Expected error for empty snapshot list")
	}
}

func TestMovingAverageWindowCutoff(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []Snapshot{
		{ScanID: "a", Timestamp: base, FieldCount: 100},
		{ScanID: "b", Timestamp: base.Add(10 * time.Hour), FieldCount: 10},
	}

	report, err := BuildTrendReport(snapshots, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	// The old snapshot falls outside the one hour window.
	if report.Points[1].AvgFields != 10 {
		t.Errorf("Expected window to exclude the old snapshot, got %+v", report.Points[1])
	}
}
