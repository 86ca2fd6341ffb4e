// Package cli implements the xpxctl command-line tool.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the xpxctl command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xpxctl",
		Short: "Score salary-advance requests from the command line.",
		Long: `xpxctl runs the same scoring pipeline as the XPX service, offline.
It is intended for support staff checking a decision and for scripting.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newScoreCommand())
	rootCmd.AddCommand(newBandsCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// Execute is the main entry point for the CLI application.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
