package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/salesreport/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "salesreport",
		Short:   "Render sales charts from a supermarket sales export",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newSummaryCommand())
	rootCmd.AddCommand(newRowsCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
