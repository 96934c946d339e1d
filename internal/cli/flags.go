package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sdejongh/dircmp/pkg/config"
)

// GlobalFlags holds the persistent flags shared by every subcommand
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	NoColor    bool

	LogFile   string
	LogFormat string
	LogLevel  string
}

var globalFlags GlobalFlags

// AddGlobalFlags registers the persistent flags on cmd
func AddGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()

	pf.StringVar(&globalFlags.ConfigFile, "config", "", "config file (default is $HOME/.config/dircmp/config.yaml)")
	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "debug logging (to --log-file, or stderr without one) and progress bar")
	pf.BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress the banner and progress output")
	pf.BoolVar(&globalFlags.NoColor, "no-color", false, "disable colored output")

	pf.StringVar(&globalFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	pf.StringVar(&globalFlags.LogFormat, "log-format", "text", "log format: text, json")
	pf.StringVar(&globalFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	_ = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	_ = cmd.MarkPersistentFlagFilename("log-file")
}

// apply overrides cfg with the global flags the user set explicitly.
// Quiet and verbose win over the output and logging sections.
func (g *GlobalFlags) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if g.NoColor {
		cfg.Output.Color = false
	}

	if flags.Changed("log-file") {
		cfg.Logging.File = g.LogFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = g.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = g.LogLevel
	}

	switch {
	case g.Quiet:
		cfg.Output.Progress = false
	case g.Verbose:
		cfg.Output.Progress = true
		cfg.Logging.Level = "debug"
	}
}
