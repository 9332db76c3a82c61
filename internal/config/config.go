package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "salesreport.yaml"

// EnvPrefix prefixes every environment override, e.g. SALESREPORT_OUTPUT_DIR.
const EnvPrefix = "SALESREPORT"

// Config represents the top-level salesreport.yaml configuration.
type Config struct {
	Input   string        `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Charts  ChartsConfig  `yaml:"charts"`
}

// OutputConfig controls where and how charts are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or svg
	Export bool   `yaml:"export"` // also write report.xlsx
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// ChartsConfig holds one entry per chart in render order.
type ChartsConfig struct {
	Line ChartConfig `yaml:"line"`
	Bar  ChartConfig `yaml:"bar"`
	Box  ChartConfig `yaml:"box"`
}

// ChartConfig describes a single chart. ProductLine filters the input before
// plotting; it is unused by the box plot, which always covers every row.
type ChartConfig struct {
	ProductLine string `yaml:"product_line,omitempty"`
	Title       string `yaml:"title"`
	XLabel      string `yaml:"x_label"`
	YLabel      string `yaml:"y_label"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
}

// Load reads a salesreport.yaml file from disk. Keys missing from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// envOverrides lists the settings that can come from the environment.
type envOverrides struct {
	Input     string `split_words:"true"`
	OutputDir string `split_words:"true"`
	Format    string `split_words:"true"`
	Export    *bool  `split_words:"true"`
	LogLevel  string `split_words:"true"`
	LogFormat string `split_words:"true"`
}

// ApplyEnv overrides cfg with any SALESREPORT_* variables that are set:
// INPUT, OUTPUT_DIR, FORMAT, EXPORT, LOG_LEVEL and LOG_FORMAT.
// Unset variables leave the current value alone.
func ApplyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if env.Input != "" {
		cfg.Input = env.Input
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.Export != nil {
		cfg.Output.Export = *env.Export
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Logging.Format = env.LogFormat
	}
	return nil
}

// Validate checks the values that are not free text.
func (c *Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir is required"))
	}
	switch strings.ToLower(c.Output.Format) {
	case "png", "svg":
	default:
		errs = append(errs, fmt.Errorf("output.format %q must be png or svg", c.Output.Format))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not a level", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}
	for _, ch := range []struct {
		name string
		cfg  ChartConfig
	}{{"line", c.Charts.Line}, {"bar", c.Charts.Bar}, {"box", c.Charts.Box}} {
		if ch.cfg.Width < 0 || ch.cfg.Height < 0 {
			errs = append(errs, fmt.Errorf("charts.%s: size must not be negative", ch.name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Default returns the configuration that reproduces the standard report.
func Default() *Config {
	return &Config{
		Input: "supermarket_sales.csv",
		Output: OutputConfig{
			Dir:    "charts",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Charts: ChartsConfig{
			Line: ChartConfig{
				ProductLine: "Sports and travel",
				Title:       "Total Sales Over Time for Sports and travel by City",
				XLabel:      "Date",
				YLabel:      "Total Sales",
				Width:       1400,
				Height:      800,
			},
			Bar: ChartConfig{
				ProductLine: "Health and beauty",
				Title:       "Total Sales by City for Health and Beauty",
				XLabel:      "City",
				YLabel:      "Total Sales in $",
				Width:       1200,
				Height:      600,
			},
			Box: ChartConfig{
				Title:  "Distribution of Total Sales by Product Line",
				XLabel: "Product Line",
				YLabel: "Total Sales",
				Width:  1200,
				Height: 600,
			},
		},
	}
}
