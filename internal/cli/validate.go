package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dircmp/internal/platform"
	"github.com/sdejongh/dircmp/pkg/config"
	"github.com/sdejongh/dircmp/pkg/models"
	"github.com/sdejongh/dircmp/pkg/ratelimit"
)

// validateCompareArgs checks the run-level preconditions
func validateCompareArgs(op *models.CompareOperation) error {
	same, err := platform.SamePath(op.LeftPath, op.RightPath)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if same {
		return models.ErrInvalidArguments
	}

	if op.Mode == models.ModeFiles {
		return fmt.Errorf("%w: %s", models.ErrUnsupportedMode, op.Mode)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	// Comparison method
	if flags.Changed("comparison") {
		cfg.Compare.Method = models.ComparisonMethod(compareFlags.Comparison)
	}

	// Categories
	if flags.Changed("show-common") {
		cfg.Compare.ShowCommon = compareFlags.ShowCommon
	}
	if flags.Changed("hide-diff") {
		cfg.Compare.HideDiff = compareFlags.HideDiff
	}

	// Exclude patterns
	if len(compareFlags.Exclude) > 0 {
		cfg.Exclude = compareFlags.Exclude
	}

	// Output format
	if flags.Changed("output") {
		cfg.Output.Format = compareFlags.Output
	}
	if flags.Changed("progress") {
		cfg.Output.Progress = compareFlags.Progress
	}

	// Performance
	if compareFlags.Parallel > 0 {
		cfg.Performance.MaxWorkers = compareFlags.Parallel
	}
	if flags.Changed("buffer-size") {
		cfg.Performance.BufferSize = compareFlags.BufferSize
	}
	if compareFlags.Bandwidth != "" {
		limit, err := ratelimit.ParseBandwidth(compareFlags.Bandwidth)
		if err != nil {
			return fmt.Errorf("invalid bandwidth limit: %w", err)
		}
		cfg.Performance.BandwidthLimit = limit
	}

	globalFlags.apply(flags, cfg)

	return nil
}

// createCompareOperation creates a compare operation from configuration
func createCompareOperation(cfg *config.Config) (*models.CompareOperation, error) {
	opts := cfg.Options()

	// Neither side flag means both sides
	opts.WantLeft = compareFlags.LeftOnly || compareFlags.LeftOnly == compareFlags.RightOnly
	opts.WantRight = compareFlags.RightOnly || compareFlags.LeftOnly == compareFlags.RightOnly

	operation := &models.CompareOperation{
		ID:               uuid.New().String(),
		LeftPath:         compareFlags.Left,
		RightPath:        compareFlags.Right,
		Mode:             models.Mode(compareFlags.Mode),
		ComparisonMethod: cfg.Compare.Method,
		Options:          opts,
		MaxWorkers:       cfg.Performance.MaxWorkers,
		BandwidthLimit:   cfg.Performance.BandwidthLimit,
		BufferSize:       cfg.Performance.BufferSize,
		CreatedAt:        time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
