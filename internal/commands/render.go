package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/salesreport/internal/logging"
	"github.com/cleared-dev/salesreport/internal/report"
)

func newRenderCommand() *cobra.Command {
	var s settings

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the line, bar and box charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, &s)
		},
	}

	s.addInputFlags(cmd)
	s.addOutputFlags(cmd)

	return cmd
}

func runRender(cmd *cobra.Command, s *settings) error {
	cfg, err := s.resolve(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := report.Run(ctx, cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, c := range res.Charts {
		fmt.Fprintf(out, "%-4s %s\n", c.Kind, c.Path)
	}
	if res.Workbook != "" {
		fmt.Fprintf(out, "xlsx %s\n", res.Workbook)
	}
	for _, a := range res.Advisories {
		var eg *report.EmptyGroupError
		if errors.As(a, &eg) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; chart drawn without data\n", eg)
		}
	}
	fmt.Fprintf(out, "Rendered %d charts from %d rows (run %s)\n", len(res.Charts), res.Rows, res.RunID)
	return nil
}
