package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/dircmp/pkg/models"
)

// WriteReport writes the comparison report to a file
// Format can be "human" or "json"
func WriteReport(report *models.Report, filepath string, format string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeJSON(file, NewJSONReport(report))
	default: // "human"
		err = writeReportHuman(report, file)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return file.Close()
}

// writeReportHuman writes the report in human-readable format without colors
func writeReportHuman(report *models.Report, w io.Writer) error {
	title := "Comparison Report"
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "ID: %s\n", report.ID)
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Left: %s\n", report.LeftPath)
	fmt.Fprintf(w, "Right: %s\n", report.RightPath)
	fmt.Fprintf(w, "Mode: %s\n", report.Mode)
	fmt.Fprintf(w, "Method: %s\n", report.Method)
	fmt.Fprintf(w, "Parameters: %s\n", strings.Join(Parameters(report.Options), ", "))
	fmt.Fprintf(w, "Status: %s\n", report.Status)
	fmt.Fprintf(w, "Duration: %s\n", formatDuration(report.Duration))
	fmt.Fprintf(w, "Directory pairs scanned: %d\n", report.Stats.DirPairsScanned)
	fmt.Fprintf(w, "Files compared: %d (%s)\n\n", report.Stats.FilesCompared, formatBytes(report.Stats.BytesCompared))

	return writeSections(w, PlainStyles{}, report)
}
