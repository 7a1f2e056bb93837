// # internal/history/models.go
package history

import "time"

const SchemaVersion = 1

// Snapshot records the outcome of one scan: how many files were read and
// what the resulting mapping contained.
type Snapshot struct {
	SchemaVersion int       `json:"schema_version"`
	ScanID        string    `json:"scan_id"`
	Timestamp     time.Time `json:"timestamp"`
	FileCount     int       `json:"file_count"`
	ErrorCount    int       `json:"error_count"`
	ModuleCount   int       `json:"module_count"`
	TypeCount     int       `json:"type_count"`
	FieldCount    int       `json:"field_count"`
	WarningCount  int       `json:"warning_count"`
	DurationMS    int64     `json:"duration_ms"`
}

// TrendPoint is one snapshot enriched with deltas against its predecessor
// and moving averages over the report window.
type TrendPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	ScanID        string    `json:"scan_id"`
	FileCount     int       `json:"file_count"`
	ModuleCount   int       `json:"module_count"`
	TypeCount     int       `json:"type_count"`
	FieldCount    int       `json:"field_count"`
	WarningCount  int       `json:"warning_count"`
	DeltaFiles    int       `json:"delta_files"`
	DeltaFields   int       `json:"delta_fields"`
	DeltaWarnings int       `json:"delta_warnings"`
	AvgFields     float64   `json:"avg_fields"`
	AvgWarnings   float64   `json:"avg_warnings"`
	WindowHours   float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
