package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// fmtMicrons renders a nullable micron value for table output.
func fmtMicrons(v *float64) string {
	if v == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%g", *v)
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		search      string
		brewMethods bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the grinders in the database",
		Long: `Prints every grinder with its micron range, in name order.
With --search only grinders whose name contains the term are shown; with
--brew-methods the distinct brew-method names are listed instead.`,
		Example: `  grindex list
  grindex list --search baratza
  grindex list --brew-methods`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			grinders, err := st.ListGrinders(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if brewMethods {
				seen := make(map[string]bool)
				var names []string
				for _, g := range grinders {
					methods, err := st.BrewMethodsOf(ctx, g.ID)
					if err != nil {
						return err
					}
					for _, m := range methods {
						if !seen[m.MethodName] {
							seen[m.MethodName] = true
							names = append(names, m.MethodName)
						}
					}
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "- %s\n", name)
				}
				fmt.Fprintf(out, "\nTotal: %d unique brew methods\n", len(names))
				return nil
			}

			if search != "" {
				needle := strings.ToLower(search)
				filtered := grinders[:0]
				for _, g := range grinders {
					if strings.Contains(strings.ToLower(g.Name), needle) {
						filtered = append(filtered, g)
					}
				}
				grinders = filtered
			}

			if len(grinders) == 0 {
				if search != "" {
					fmt.Fprintf(out, "No grinders found matching %q\n", search)
				} else {
					fmt.Fprintln(out, "No grinders found in the database.")
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tName\tMin Microns\tMax Microns")
			for _, g := range grinders {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", g.ID, g.Name, fmtMicrons(g.MinMicrons), fmtMicrons(g.MaxMicrons))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTotal: %d grinders\n", len(grinders))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "only list grinders whose name contains this")
	cmd.Flags().BoolVar(&brewMethods, "brew-methods", false, "list distinct brew-method names instead")

	return cmd
}
