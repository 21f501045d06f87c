package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the matrix cells a spec file enumerates, without running them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cells, err := loadMatrix(specPath)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SAMPLER\tOBJECTIVE\tPARAMS\tTRIALS\tPRUNER\tTIER")
			for _, cell := range cells {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
					cell.Sampler, cell.Objective, cell.NParams, cell.NTrials, cell.Pruner, cell.Tier)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d configurations\n", len(cells))
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "matrix.yaml", "matrix spec file")
	return cmd
}
