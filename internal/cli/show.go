package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brewkit/grindex/pkg/grindex/store"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show GRINDER",
		Short: "Show one grinder with all its brew methods",
		Long: `Dumps a single grinder's calibration record: micron range, source
URL and every brew method with its micron and setting ranges. The grinder
is matched by numeric ID or by name substring.`,
		Example: `  grindex show 3
  grindex show encore`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			var g store.Grinder
			if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
				g, err = st.GetGrinder(ctx, id)
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("no grinder with ID %d", id)
				}
				if err != nil {
					return err
				}
			} else {
				var found bool
				g, found, err = st.FindGrinder(ctx, args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no grinder matching %q", args[0])
				}
			}

			methods, err := st.BrewMethodsOf(ctx, g.ID)
			if err != nil {
				return err
			}
			// Resolved methods first, ordered by where they sit on the scale.
			sort.SliceStable(methods, func(i, j int) bool {
				mi, mj := methods[i].StartMicrons, methods[j].StartMicrons
				if mi == nil || mj == nil {
					return mi != nil
				}
				return *mi < *mj
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Grinder: %s (ID %d)\n", g.Name, g.ID)
			fmt.Fprintf(out, "Min Microns: %s\n", fmtMicrons(g.MinMicrons))
			fmt.Fprintf(out, "Max Microns: %s\n", fmtMicrons(g.MaxMicrons))
			if g.URL != "" {
				fmt.Fprintf(out, "URL: %s\n", g.URL)
			}

			if len(methods) == 0 {
				fmt.Fprintln(out, "\nNo brew methods found for this grinder.")
				return nil
			}

			fmt.Fprintln(out, "\nBrew Methods:")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Method\tMicrons Range\tSettings Range\tFormat\tGrind Category")
			for _, m := range methods {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					m.MethodName,
					rangeOrUnknown(fmtMicrons(m.StartMicrons), fmtMicrons(m.EndMicrons)),
					settingRange(m),
					m.SettingFormat,
					categoryOrUnknown(m.GrindCategory))
			}
			return tw.Flush()
		},
	}

	return cmd
}

func rangeOrUnknown(lo, hi string) string {
	if lo == "Unknown" || hi == "Unknown" {
		return "Unknown"
	}
	return lo + " - " + hi
}

func settingRange(m store.BrewMethod) string {
	if m.StartSetting == nil || m.EndSetting == nil {
		return "Unknown"
	}
	return *m.StartSetting + " - " + *m.EndSetting
}

func categoryOrUnknown(category string) string {
	if category == "" {
		return "Unknown"
	}
	return category
}
