package models

import (
	"time"
)

// Report represents the results of a comparison run
type Report struct {
	// Operation details
	ID        string
	LeftPath  string
	RightPath string
	Mode      Mode
	Method    ComparisonMethod
	Options   Options

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Result holds the four categories and contained errors
	Result *Result

	// Overall status
	Status Status
}

// Statistics holds counters gathered during traversal
type Statistics struct {
	DirPairsScanned int
	FilesCompared   int
	BytesCompared   int64
}

// Status represents the overall result
type Status string

const (
	// StatusSuccess indicates the whole tree was compared
	StatusSuccess Status = "success"
	// StatusPartial indicates some subtrees or files could not be compared
	StatusPartial Status = "partial"
	// StatusFailed indicates the comparison never started
	StatusFailed Status = "failed"
)

// Finish stamps the end time and derives the status from the result
func (r *Report) Finish(result *Result) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Result = result
	switch {
	case result == nil:
		r.Status = StatusFailed
	case len(result.Errors) > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusSuccess
	}
}
