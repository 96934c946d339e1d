package output

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sdejongh/dircmp/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer io.Writer
	styles Styles
	quiet  bool
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(styles Styles) *HumanFormatter {
	if styles == nil {
		styles = PlainStyles{}
	}
	return &HumanFormatter{styles: styles}
}

// SetQuiet suppresses the banner
func (f *HumanFormatter) SetQuiet(quiet bool) {
	f.quiet = quiet
}

// Start prints the banner with both roots, the mode and the requested categories
func (f *HumanFormatter) Start(writer io.Writer, op *models.CompareOperation) error {
	f.writer = writer
	if f.writer == nil {
		f.writer = io.Discard
	}
	if f.quiet {
		return nil
	}

	fmt.Fprintln(f.writer, f.styles.Banner(fmt.Sprintf("Compare %q and %q %s", op.LeftPath, op.RightPath, op.Mode)))
	for _, param := range Parameters(op.Options) {
		fmt.Fprintln(f.writer, f.styles.Banner(param))
	}
	return nil
}

// Complete prints the requested sections in a fixed order, then errors
func (f *HumanFormatter) Complete(report *models.Report) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	return writeSections(f.writer, f.styles, report)
}

// Error prints a run-level error
func (f *HumanFormatter) Error(err error) error {
	if f.writer == nil {
		return nil
	}
	fmt.Fprintln(f.writer, f.styles.Error(errorMessage(err)))
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func writeSections(w io.Writer, styles Styles, report *models.Report) error {
	result := report.Result
	if result == nil {
		result = &models.Result{}
	}
	opts := report.Options

	if opts.WantCommon {
		fmt.Fprintln(w, styles.Header("Common:"))
		writePairs(w, result.Common)
		if len(result.Common) == 0 {
			fmt.Fprintln(w, "No common files")
		}
	}

	if opts.WantDiffering {
		fmt.Fprintln(w, styles.Header("Different files:"))
		writePairs(w, result.Differing)
		if len(result.Differing) == 0 {
			fmt.Fprintln(w, "No different files")
		}
	}

	if opts.WantLeft {
		fmt.Fprintln(w, styles.Header("Left only:"))
		writePaths(w, result.LeftOnly)
		if len(result.LeftOnly) == 0 {
			fmt.Fprintln(w, styles.Empty("No left only files"))
		}
	}

	if opts.WantRight {
		fmt.Fprintln(w, styles.Header("Right only:"))
		writePaths(w, result.RightOnly)
		if len(result.RightOnly) == 0 {
			fmt.Fprintln(w, styles.Empty("No right only files"))
		}
	}

	for _, terr := range result.Errors {
		fmt.Fprintln(w, styles.Error(terr.Error()))
	}

	return nil
}

func writePairs(w io.Writer, pairs []models.PathPair) {
	for _, p := range sortedPairs(pairs) {
		fmt.Fprintf(w, "(%s, %s)\n", p.Left, p.Right)
	}
}

func writePaths(w io.Writer, paths []string) {
	for _, p := range sortedPaths(paths) {
		fmt.Fprintln(w, p)
	}
}

func sortedPairs(pairs []models.PathPair) []models.PathPair {
	out := append([]models.PathPair(nil), pairs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Left != out[j].Left {
			return out[i].Left < out[j].Left
		}
		return out[i].Right < out[j].Right
	})
	return out
}

func sortedPaths(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration rounds a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}
