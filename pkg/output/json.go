package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/dircmp/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer io.Writer
	op     *models.CompareOperation
}

// JSONReportData represents the final report
type JSONReportData struct {
	ID         string            `json:"id,omitempty"`
	LeftPath   string            `json:"left_path"`
	RightPath  string            `json:"right_path"`
	Mode       string            `json:"mode"`
	Method     string            `json:"method,omitempty"`
	Status     string            `json:"status"`
	StartTime  string            `json:"start_time,omitempty"`
	Duration   string            `json:"duration,omitempty"`
	DurationMs int64             `json:"duration_ms"`
	Options    JSONOptionsData   `json:"options"`
	Stats      JSONStatsData     `json:"stats"`
	Common     []models.PathPair `json:"common,omitempty"`
	Differing  []models.PathPair `json:"differing,omitempty"`
	LeftOnly   []string          `json:"left_only,omitempty"`
	RightOnly  []string          `json:"right_only,omitempty"`
	Errors     []JSONErrorData   `json:"errors,omitempty"`
}

// JSONOptionsData represents the requested categories
type JSONOptionsData struct {
	Left      bool     `json:"left_only"`
	Right     bool     `json:"right_only"`
	Common    bool     `json:"common"`
	Differing bool     `json:"differing"`
	Exclude   []string `json:"exclude,omitempty"`
}

// JSONStatsData represents traversal statistics
type JSONStatsData struct {
	DirPairsScanned int    `json:"dir_pairs_scanned"`
	FilesCompared   int    `json:"files_compared"`
	BytesCompared   int64  `json:"bytes_compared"`
	BytesHuman      string `json:"bytes_compared_human"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path  string `json:"path,omitempty"`
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start records the operation; nothing is printed before the report
func (f *JSONFormatter) Start(writer io.Writer, op *models.CompareOperation) error {
	f.writer = writer
	f.op = op
	return nil
}

// Complete writes the report as indented JSON
func (f *JSONFormatter) Complete(report *models.Report) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	return writeJSON(f.writer, NewJSONReport(report))
}

// Error writes a failed report carrying err
func (f *JSONFormatter) Error(err error) error {
	if f.writer == nil {
		return nil
	}

	data := JSONReportData{
		Status: string(models.StatusFailed),
		Errors: []JSONErrorData{{Error: err.Error()}},
	}
	if f.op != nil {
		data.ID = f.op.ID
		data.LeftPath = f.op.LeftPath
		data.RightPath = f.op.RightPath
		data.Mode = string(f.op.Mode)
		data.Method = string(f.op.ComparisonMethod)
		data.Options = jsonOptions(f.op.Options)
	}
	return writeJSON(f.writer, data)
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// NewJSONReport converts a report to its JSON form with sorted entries
func NewJSONReport(report *models.Report) JSONReportData {
	data := JSONReportData{
		ID:         report.ID,
		LeftPath:   report.LeftPath,
		RightPath:  report.RightPath,
		Mode:       string(report.Mode),
		Method:     string(report.Method),
		Status:     string(report.Status),
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Options:    jsonOptions(report.Options),
		Stats: JSONStatsData{
			DirPairsScanned: report.Stats.DirPairsScanned,
			FilesCompared:   report.Stats.FilesCompared,
			BytesCompared:   report.Stats.BytesCompared,
			BytesHuman:      formatBytes(report.Stats.BytesCompared),
		},
	}
	if !report.StartTime.IsZero() {
		data.StartTime = report.StartTime.Format(time.RFC3339)
	}

	if result := report.Result; result != nil {
		data.Common = sortedPairs(result.Common)
		data.Differing = sortedPairs(result.Differing)
		data.LeftOnly = sortedPaths(result.LeftOnly)
		data.RightOnly = sortedPaths(result.RightOnly)
		for _, terr := range result.Errors {
			data.Errors = append(data.Errors, JSONErrorData{
				Path:  terr.Path,
				Error: terr.Err.Error(),
			})
		}
	}

	return data
}

func jsonOptions(opts models.Options) JSONOptionsData {
	return JSONOptionsData{
		Left:      opts.WantLeft,
		Right:     opts.WantRight,
		Common:    opts.WantCommon,
		Differing: opts.WantDiffering,
		Exclude:   opts.Exclude,
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
