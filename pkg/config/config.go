package config

import (
	"slices"

	"github.com/sdejongh/dircmp/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare" mapstructure:"compare"`
	Performance PerformanceConfig `yaml:"performance" mapstructure:"performance"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Exclude     []string          `yaml:"exclude" mapstructure:"exclude"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	Method     models.ComparisonMethod `yaml:"method" mapstructure:"method"`
	ShowCommon bool                    `yaml:"show_common" mapstructure:"show_common"`
	HideDiff   bool                    `yaml:"hide_diff" mapstructure:"hide_diff"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int   `yaml:"max_workers" mapstructure:"max_workers"`
	BufferSize     int   `yaml:"buffer_size" mapstructure:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit" mapstructure:"bandwidth_limit"` // bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" mapstructure:"format"`     // "human" or "json"
	Color    bool   `yaml:"color" mapstructure:"color"`       // Color human output on terminals
	Progress bool   `yaml:"progress" mapstructure:"progress"` // Show progress bar
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format     string `yaml:"format" mapstructure:"format"` // "json" or "text"
	Level      string `yaml:"level" mapstructure:"level"`   // "debug", "info", "warn", "error"
	File       string `yaml:"file" mapstructure:"file"`     // Log file path (empty = no log)
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Method:     models.CompareBinary,
			ShowCommon: false,
			HideDiff:   false,
		},
		Performance: PerformanceConfig{
			MaxWorkers:     4,
			BufferSize:     65536,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Color:    true,
			Progress: false,
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
		Exclude: []string{},
	}
}

// Validate reports the first invalid field as a *models.ValidationError
func (c *Config) Validate() error {
	checks := []struct {
		field   string
		ok      bool
		message string
	}{
		{"compare.method", c.Compare.Method.Valid(), "must be 'binary', 'hash', or 'md5'"},
		{"performance.max_workers", c.Performance.MaxWorkers >= 1, "must be at least 1"},
		{"performance.buffer_size", c.Performance.BufferSize >= 1024, "must be at least 1024 bytes"},
		{"performance.bandwidth_limit", c.Performance.BandwidthLimit >= 0, "must not be negative"},
		{"output.format", oneOf(c.Output.Format, "human", "json"), "must be 'human' or 'json'"},
		{"logging.format", oneOf(c.Logging.Format, "json", "text"), "must be 'json' or 'text'"},
		{"logging.level", oneOf(c.Logging.Level, "debug", "info", "warn", "error"), "must be 'debug', 'info', 'warn', or 'error'"},
		{"logging.max_size_mb", c.Logging.MaxSizeMB >= 0 && c.Logging.MaxBackups >= 0, "rotation settings must not be negative"},
	}

	for _, check := range checks {
		if !check.ok {
			return &models.ValidationError{Field: check.field, Message: check.message}
		}
	}
	return nil
}

func oneOf(value string, allowed ...string) bool {
	return slices.Contains(allowed, value)
}

// Options converts the compare section into traversal options
func (c *Config) Options() models.Options {
	return models.Options{
		WantLeft:      true,
		WantRight:     true,
		WantCommon:    c.Compare.ShowCommon,
		WantDiffering: !c.Compare.HideDiff,
		Exclude:       append([]string(nil), c.Exclude...),
	}
}
