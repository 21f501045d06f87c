package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/optbench/internal/driver"
	"github.com/copyleftdev/optbench/internal/matrix"
	"github.com/copyleftdev/optbench/internal/report"
	"github.com/copyleftdev/optbench/internal/result"
)

func newRunCmd() *cobra.Command {
	var (
		samplerName   string
		objectiveName string
		nParams       int
		nTrials       int
		prunerName    string
		tierName      string
		featureName   string
		framework     string
		seed          int64
		output        string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one benchmark configuration and save its result",
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

			cell, err := parseCell(samplerName, objectiveName, nParams, nTrials, prunerName, tierName)
			if err != nil {
				return err
			}
			feature, err := driver.ParseFeature(featureName)
			if err != nil {
				return err
			}

			res, err := driver.Run(cell, driver.Options{
				Framework: framework,
				Seed:      seed,
				Feature:   feature,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			if err := result.Save(res, output); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[OK] result saved to %s\n", output)
			fmt.Fprintf(cmd.OutOrStdout(), "best=%s elapsed=%s trials/sec=%s pruned=%d/%d\n",
				report.FormatValue(float64(res.BestValue)),
				report.FormatDuration(res.ElapsedMS),
				report.FormatValue(res.TrialsPerSecond),
				res.PrunedTrials, res.NTrials)
			return nil
		},
	}

	cmd.Flags().StringVar(&samplerName, "sampler", "", "sampler to use (tpe, random, cmaes)")
	cmd.Flags().StringVar(&objectiveName, "objective", "", "objective function (sphere, rosenbrock, rastrigin, ackley)")
	cmd.Flags().IntVar(&nParams, "params", 0, "number of parameters")
	cmd.Flags().IntVar(&nTrials, "trials", 0, "number of trials")
	cmd.Flags().StringVar(&prunerName, "pruner", "none", "pruner to use (none, median, sha)")
	cmd.Flags().StringVar(&tierName, "tier", "fast", "tier (fast, extended)")
	cmd.Flags().StringVar(&featureName, "feature", "single", "problem variant (single, multi, constrained)")
	cmd.Flags().StringVar(&framework, "framework", "", "framework label for the result record")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&output, "output", "", "output JSON file path")
	_ = cmd.MarkFlagRequired("sampler")
	_ = cmd.MarkFlagRequired("objective")
	_ = cmd.MarkFlagRequired("params")
	_ = cmd.MarkFlagRequired("trials")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// parseCell validates the six canonical fields, failing fast before any
// trial runs.
func parseCell(sampler, objective string, nParams, nTrials int, pruner, tier string) (matrix.Config, error) {
	s, err := matrix.ParseSampler(sampler)
	if err != nil {
		return matrix.Config{}, err
	}
	o, err := matrix.ParseObjective(objective)
	if err != nil {
		return matrix.Config{}, err
	}
	p, err := matrix.ParsePruner(pruner)
	if err != nil {
		return matrix.Config{}, err
	}
	t, err := matrix.ParseTier(tier)
	if err != nil {
		return matrix.Config{}, err
	}
	cell := matrix.Config{
		Sampler:   s,
		Objective: o,
		NParams:   nParams,
		NTrials:   nTrials,
		Pruner:    p,
		Tier:      t,
	}
	return cell, cell.Validate()
}
