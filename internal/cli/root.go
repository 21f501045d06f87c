// Package cli wires the optbench commands: running single cells, full
// matrices, and rendering the comparison report.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/copyleftdev/optbench/internal/config"
	"github.com/copyleftdev/optbench/internal/logging"
)

// NewRootCmd builds the optbench command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "optbench",
		Short:         "Benchmark matrix runner for black-box optimization samplers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newMatrixCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReportCmd())
	return root
}

// setup loads environment configuration and builds the harness logger.
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLogger(&logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.WithField("service", "optbench"), nil
}
