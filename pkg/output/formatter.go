package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/sdejongh/dircmp/pkg/models"
)

// Formatter defines the interface for output formatting
// Implementations include human-readable and JSON formatters
type Formatter interface {
	// Start prints whatever precedes the results for op
	Start(writer io.Writer, op *models.CompareOperation) error

	// Complete prints the comparison report
	Complete(report *models.Report) error

	// Error reports a run-level error that stopped the comparison
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter for format ("human" or "json")
func NewFormatter(format string, styles Styles) (Formatter, error) {
	switch format {
	case "", "human":
		return NewHumanFormatter(styles), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// Parameters returns the banner lines describing the requested categories
func Parameters(opts models.Options) []string {
	var params []string
	if opts.WantLeft && !opts.WantRight {
		params = append(params, "LEFT ONLY")
	}
	if opts.WantRight && !opts.WantLeft {
		params = append(params, "RIGHT ONLY")
	}
	if opts.WantCommon {
		params = append(params, "SHOW COMMON")
	} else {
		params = append(params, "DO NOT SHOW COMMON")
	}
	if opts.WantDiffering {
		params = append(params, "DO NOT HIDE DIFFERENT")
	} else {
		params = append(params, "HIDE DIFFERENT")
	}
	return params
}

// errorMessage renders err the way it is shown to users
func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
