package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sdejongh/dircmp/pkg/compare"
	"github.com/sdejongh/dircmp/pkg/config"
	"github.com/sdejongh/dircmp/pkg/differ"
	"github.com/sdejongh/dircmp/pkg/logging"
	"github.com/sdejongh/dircmp/pkg/output"
	"github.com/sdejongh/dircmp/pkg/ratelimit"
	"github.com/sdejongh/dircmp/pkg/storage"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	Left         string
	Right        string
	Mode         string
	ShowCommon   bool
	HideDiff     bool
	LeftOnly     bool
	RightOnly    bool
	Comparison   string
	Exclude      []string
	Output       string
	Report       string
	ReportFormat string
	Bandwidth    string
	Progress     bool
	Parallel     int
	BufferSize   int
}

var compareFlags CompareFlags

// flagAliases maps accepted long names onto the canonical flag
var flagAliases = map[string]string{
	"left-path":  "path1",
	"right-path": "path2",
}

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two directory trees",
		Long: `Compare the left and right directory trees recursively and report
common files, files whose contents differ, and entries that exist only on
one side. By default different files and both one-sided lists are shown.`,
		Example: `  dircmp compare --path1 ./a --path2 ./b
  dircmp compare --left-path ./a --right-path ./b --show-common --left-only`,
		RunE: runCompare,
	}

	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if canonical, ok := flagAliases[name]; ok {
			name = canonical
		}
		return pflag.NormalizedName(name)
	})

	// Required flags
	cmd.Flags().StringVar(&compareFlags.Left, "path1", "", "path to the first (left) directory (alias --left-path)")
	cmd.Flags().StringVar(&compareFlags.Right, "path2", "", "path to the second (right) directory (alias --right-path)")
	cmd.MarkFlagRequired("path1")
	cmd.MarkFlagRequired("path2")

	// Category flags
	cmd.Flags().StringVarP(&compareFlags.Mode, "mode", "m", "directories", "compare directories or files")
	cmd.Flags().BoolVarP(&compareFlags.ShowCommon, "show-common", "c", false, "show common files")
	cmd.Flags().BoolVarP(&compareFlags.HideDiff, "hide-diff", "d", false, "hide different files")
	cmd.Flags().BoolVarP(&compareFlags.LeftOnly, "left-only", "l", false, "show left only entries")
	cmd.Flags().BoolVarP(&compareFlags.RightOnly, "right-only", "r", false, "show right only entries")
	cmd.MarkFlagsMutuallyExclusive("left-only", "right-only")

	// Optional flags
	cmd.Flags().StringVar(&compareFlags.Comparison, "comparison", "binary", "comparison method: binary (byte-exact), hash or md5 (matching digests, probable equality only)")
	cmd.Flags().StringSliceVar(&compareFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "human", "output format: human, json")
	cmd.Flags().StringVar(&compareFlags.Report, "report", "", "write the comparison report to file")
	cmd.Flags().StringVar(&compareFlags.ReportFormat, "report-format", "human", "report file format: human, json")
	cmd.Flags().StringVarP(&compareFlags.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().BoolVar(&compareFlags.Progress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().IntVarP(&compareFlags.Parallel, "parallel", "p", 0, "number of parallel file comparisons (default from config: 4)")
	cmd.Flags().IntVar(&compareFlags.BufferSize, "buffer-size", 0, "read buffer size in bytes (default from config: 65536)")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	operation, err := createCompareOperation(cfg)
	if err != nil {
		return fmt.Errorf("failed to create compare operation: %w", err)
	}

	stdout := cmd.OutOrStdout()
	styles := output.NewStyles(cfg.Output.Color && output.ColorEnabled(stdout, globalFlags.NoColor))
	formatter, err := output.NewFormatter(cfg.Output.Format, styles)
	if err != nil {
		return err
	}

	if q, ok := formatter.(interface{ SetQuiet(bool) }); ok {
		q.SetQuiet(globalFlags.Quiet)
	}
	if err := formatter.Start(stdout, operation); err != nil {
		return err
	}

	// Create logger
	logger, err := createLogger(cfg.Logging, cmd.ErrOrStderr(), globalFlags.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	logger = logger.WithFields(logging.Fields{"run_id": operation.ID})

	// Run-level errors short-circuit before any traversal
	if err := validateCompareArgs(operation); err != nil {
		logger.Error(ctx, "Comparison rejected", err, logging.Fields{
			"left":  operation.LeftPath,
			"right": operation.RightPath,
			"mode":  string(operation.Mode),
		})
		return formatter.Error(err)
	}

	// Create storage backends
	left, err := storage.NewLocal(operation.LeftPath)
	if err != nil {
		return fmt.Errorf("failed to create left backend: %w", err)
	}
	defer left.Close()

	right, err := storage.NewLocal(operation.RightPath)
	if err != nil {
		return fmt.Errorf("failed to create right backend: %w", err)
	}
	defer right.Close()

	// Create comparator
	comparator, err := compare.New(operation.ComparisonMethod, operation.BufferSize)
	if err != nil {
		return err
	}
	limiter := ratelimit.NewLimiter(operation.BandwidthLimit)
	comparator = compare.WithReaderWrapper(comparator, ratelimit.Wrapper(ctx, limiter))

	d := differ.New(comparator, logger)
	d.SetMaxWorkers(operation.MaxWorkers)

	// Progress bar only on an interactive stderr
	var bar *output.ProgressBar
	if cfg.Output.Progress && !globalFlags.Quiet && output.IsTerminal(cmd.ErrOrStderr()) {
		bar = output.NewProgressBar(cmd.ErrOrStderr())
		d.SetProgressCallback(bar.Update)
		bar.Start()
	}

	report, err := d.Run(ctx, operation, left, right)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if err := formatter.Complete(report); err != nil {
		return fmt.Errorf("failed to print results: %w", err)
	}

	// Write report file if requested
	if compareFlags.Report != "" {
		if err := output.WriteReport(report, compareFlags.Report, compareFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info(ctx, "Report written", logging.Fields{"path": compareFlags.Report})
	}

	return nil
}

// createLogger creates a logger based on configuration. Without a log
// file, verbose runs log to stderr and other runs discard logs.
func createLogger(cfg config.LoggingConfig, stderr io.Writer, verbose bool) (logging.Logger, error) {
	format := logging.FormatText
	if cfg.Format == "json" {
		format = logging.FormatJSON
	}

	if cfg.File == "" {
		if verbose {
			return logging.NewWriterLogger(stderr, format, logging.ParseLevel(cfg.Level)), nil
		}
		return logging.NewNullLogger(), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Level),
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}
