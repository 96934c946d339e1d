package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the dircmp command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dircmp",
		Short: "Recursive directory tree comparison",
		Long: `dircmp compares two directory trees and reports which files are
identical, which differ in content, and which exist on only one side.`,
		Version:       currentBuild().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
