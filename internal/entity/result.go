package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentResult is one accumulated report row: a single employee
// extracted from one processed document. A multi-employee document
// produces several rows sharing the same FileName.
type DocumentResult struct {
	ID           uuid.UUID
	FileName     string
	EmployeeName string
	// TotalHours is nil when no plausible hour value was detected.
	// Callers must render that as "not detected", never as zero.
	TotalHours     *float64
	DetectedValues []float64
	DetectedCount  int
	// Kind is SINGLE or MULTI; Origin is the pattern family for table
	// rows and SINGLE for the single-subject pipeline.
	Kind        string
	Origin      string
	ProcessedAt time.Time
}
