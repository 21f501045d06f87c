package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/copyleftdev/optbench/internal/driver"
	"github.com/copyleftdev/optbench/internal/errors"
	"github.com/copyleftdev/optbench/internal/matrix"
	"github.com/copyleftdev/optbench/internal/metrics"
	"github.com/copyleftdev/optbench/internal/result"
)

func newMatrixCmd() *cobra.Command {
	var (
		specPath    string
		outDir      string
		framework   string
		featureName string
		seed        int64
		metricsAddr string
		noProgress  bool
	)

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Run every cell of a benchmark matrix",
		Long: "Enumerates the Cartesian matrix described by the spec file and runs each\n" +
			"cell to completion in sequence, writing one result file per cell. A cell\n" +
			"that fails aborts only itself; the rest of the matrix keeps running.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if framework == "" {
				framework = cfg.Framework
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Seed
			}
			if outDir == "" {
				outDir = cfg.ResultsDir
			}
			if metricsAddr == "" {
				metricsAddr = cfg.MetricsAddr
			}
			feature, err := driver.ParseFeature(featureName)
			if err != nil {
				return err
			}

			cells, err := loadMatrix(specPath)
			if err != nil {
				return err
			}

			var m *metrics.Metrics
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if metricsAddr != "" {
				m = metrics.New()
				go func() {
					if err := metrics.Serve(ctx, metricsAddr, m, logger); err != nil {
						logger.Error("metrics listener failed", map[string]interface{}{"error": err.Error()})
					}
				}()
			}

			var bar *pb.ProgressBar
			if !noProgress {
				bar = pb.StartNew(len(cells))
			}

			saved, failed := 0, 0
			for _, cell := range cells {
				res, err := driver.Run(cell, driver.Options{
					Framework: framework,
					Seed:      seed,
					Feature:   feature,
					Logger:    logger,
					Metrics:   m,
				})
				if err != nil {
					// One bad cell never takes down the matrix.
					failed++
					logger.Error("configuration failed", map[string]interface{}{
						"configuration": cell.Key().String(),
						"error":         err.Error(),
					})
				} else {
					path := filepath.Join(outDir, fmt.Sprintf("%s_%s.json", framework, cell.Key()))
					if err := result.Save(res, path); err != nil {
						failed++
						logger.Error("saving result failed", map[string]interface{}{"path": path, "error": err.Error()})
					} else {
						saved++
					}
				}
				if bar != nil {
					bar.Increment()
				}
			}
			if bar != nil {
				bar.Finish()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[OK] %d/%d results saved to %s\n", saved, len(cells), outDir)
			if failed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "[WARN] %d configurations failed; see log\n", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "matrix.yaml", "matrix spec file")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for result files")
	cmd.Flags().StringVar(&framework, "framework", "", "framework label for result records")
	cmd.Flags().StringVar(&featureName, "feature", "single", "problem variant (single, multi, constrained)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

// loadMatrix parses the YAML matrix spec and enumerates its cells.
func loadMatrix(path string) ([]matrix.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading matrix spec").WithComponent("cli")
	}
	var req matrix.Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, errors.Wrap(err, "parsing matrix spec").WithComponent("cli")
	}
	return matrix.Enumerate(req)
}
