package cli

import (
	"github.com/spf13/cobra"

	"github.com/brewkit/grindex/pkg/grindex/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		outPath      string
		grinderLimit int
		methodsLimit int
		full         bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the calibration database to JSON",
		Long: `Writes the database as a JSON document. By default a small subset is
exported (the five most popular grinders with five brew methods each),
which is handy as a development fixture; use --full for everything.`,
		Example: `  grindex export
  grindex export --full --out all_grinders.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if full {
				grinderLimit = 0
				methodsLimit = 0
			}

			ctx := cmd.Context()
			ref, err := opts.reference()
			if err != nil {
				return err
			}
			st, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := export.Build(ctx, st, ref, export.Options{
				GrinderLimit: grinderLimit,
				MethodsLimit: methodsLimit,
			})
			if err != nil {
				return err
			}
			if err := export.Write(snap, outPath); err != nil {
				return err
			}

			opts.log.Info().
				Int("grinders", snap.Metadata.TotalGrinders).
				Bool("subset", snap.Metadata.IsSubset).
				Str("out", outPath).
				Msg("exported database")
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "coffee_data.json", "output file path")
	cmd.Flags().IntVar(&grinderLimit, "limit", 5, "number of grinders to export (0 = all)")
	cmd.Flags().IntVar(&methodsLimit, "methods", 5, "brew methods per grinder (0 = all)")
	cmd.Flags().BoolVar(&full, "full", false, "export the complete dataset with no limits")

	return cmd
}
