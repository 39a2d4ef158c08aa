// Package cli implements the fitproof command-line interface using Cobra.
// Each subcommand maps to one engine capability (serve, submit, shield...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fitproof",
	Short: "FitProof — fitness accountability streak engine",
	Long: `FitProof tracks daily activity submissions and derives streaks,
perfect weeks, and protection tokens from them. Run "fitproof serve" to
start the HTTP API, or use the subcommands to inspect and edit state
directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
