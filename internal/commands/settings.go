package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/salesreport/internal/config"
)

// settings are the flags shared by commands that read the sales file.
type settings struct {
	configPath string
	input      string
	outDir     string
	format     string
	export     bool
	logLevel   string
}

func (s *settings) addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.configPath, "config", config.FileName, "config file")
}

func (s *settings) addOutDirFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.outDir, "out", "", "output directory (overrides config)")
}

func (s *settings) addInputFlags(cmd *cobra.Command) {
	s.addConfigFlag(cmd)
	cmd.Flags().StringVar(&s.input, "input", "", "sales CSV or XLSX file (overrides config)")
}

func (s *settings) addOutputFlags(cmd *cobra.Command) {
	s.addOutDirFlag(cmd)
	cmd.Flags().StringVar(&s.format, "format", "", "image format: png or svg (overrides config)")
	cmd.Flags().BoolVar(&s.export, "export", false, "also write the chart data to report.xlsx")
	cmd.Flags().StringVar(&s.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}

// resolve builds the effective config: defaults, then the config file, then
// SALESREPORT_* variables, then flags. A missing config file is only an
// error when --config was given explicitly.
func (s *settings) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, err
		}
		cfg = config.Default()
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = s.input
	}
	if flags.Changed("out") {
		cfg.Output.Dir = s.outDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = s.format
	}
	if flags.Changed("export") {
		cfg.Output.Export = s.export
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = s.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.configPath, err)
	}
	return cfg, nil
}
