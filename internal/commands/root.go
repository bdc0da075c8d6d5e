package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Transaction import and reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newImportCommand())

	return rootCmd
}
