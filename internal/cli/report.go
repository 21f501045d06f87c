package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/optbench/internal/compare"
	"github.com/copyleftdev/optbench/internal/report"
	"github.com/copyleftdev/optbench/internal/result"
)

func newReportCmd() *cobra.Command {
	var (
		inputDir string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the cross-framework comparison report from saved results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if inputDir == "" {
				inputDir = cfg.ResultsDir
			}
			if output == "" {
				output = cfg.ReportPath
			}

			results, err := result.LoadAll(inputDir, logger)
			if err != nil {
				return err
			}
			if err := report.WriteFile(results, time.Now(), output, logger); err != nil {
				return err
			}

			completed, total := compare.GroupByConfig(results, nil).Progress()
			fmt.Fprintf(cmd.OutOrStdout(), "[OK] report written to %s\n", output)
			fmt.Fprintf(cmd.OutOrStdout(), "%d results loaded, %d/%d configuration pairs completed\n",
				len(results), completed, total)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", "", "directory containing result JSON files")
	cmd.Flags().StringVar(&output, "output", "", "output Markdown file path")
	return cmd
}
