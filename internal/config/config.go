// Package config loads harness settings from the environment. Command-line
// flags override anything set here.
package config

import (
	"github.com/caarlos0/env/v10"
)

type Config struct {
	// Framework is the label written into result records. Each framework's
	// runner sets its own so the aggregator can correlate runs.
	Framework string `env:"OPTBENCH_FRAMEWORK" envDefault:"optbench"`
	// Seed is the default random seed for samplers and intermediate-value
	// synthesis.
	Seed int64 `env:"OPTBENCH_SEED" envDefault:"42"`

	ResultsDir string `env:"OPTBENCH_RESULTS_DIR" envDefault:".temp/runs"`
	ReportPath string `env:"OPTBENCH_REPORT" envDefault:"benchmark-results/comparison_report.md"`

	// MetricsAddr, when non-empty, turns on the live metrics listener during
	// matrix runs (e.g. ":9090").
	MetricsAddr string `env:"OPTBENCH_METRICS_ADDR"`

	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
