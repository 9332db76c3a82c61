package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/salesreport/internal/runlog"
)

func newHistoryCommand() *cobra.Command {
	var s settings
	var runID string
	var all bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show what report runs wrote to the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.resolve(cmd)
			if err != nil {
				return err
			}

			entries, err := runlog.Read(cfg.Output.Dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No runs logged in %s\n", cfg.Output.Dir)
				return nil
			}

			if !all {
				if runID == "" {
					runID = entries[len(entries)-1].RunID
				}
				entries = runlog.ForRun(entries, runID)
				if len(entries) == 0 {
					return fmt.Errorf("no log entries for run %q in %s", runID, cfg.Output.Dir)
				}
			}
			return printHistory(out, entries)
		},
	}

	s.addConfigFlag(cmd)
	s.addOutDirFlag(cmd)
	cmd.Flags().StringVar(&runID, "run", "", "run to show (default: the newest)")
	cmd.Flags().BoolVar(&all, "all", false, "show every logged run")

	return cmd
}

func printHistory(out io.Writer, entries []runlog.Entry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRUN\tCHART\tACTION\tPATH\tDETAILS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.UTC().Format(time.RFC3339), e.RunID, e.Chart, e.Action, e.Path, e.Details)
	}
	return tw.Flush()
}
