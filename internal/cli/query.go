package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/brewkit/grindex/pkg/grindex/dial"
	"github.com/brewkit/grindex/pkg/grindex/internalerr"
	"github.com/brewkit/grindex/pkg/grindex/recommend"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var (
		methodFilter string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "query GRINDER MICRONS",
		Short: "Find the dial setting for a target particle size",
		Long: `Looks up a grinder by name substring and computes the dial setting
for the target micron size, along with the brew methods whose ranges
cover it, ranked best fit first.`,
		Example: `  grindex query encore 750
  grindex query "1zpresso jx" 400 --method espresso
  grindex query encore 750 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid micron value %q", args[1])
			}

			ctx := cmd.Context()
			eng, err := opts.newEngine(ctx, nil)
			if err != nil {
				return err
			}
			defer eng.Close()

			res, err := eng.Query(ctx, args[0], target, methodFilter)
			if err != nil {
				var qerr *recommend.QueryError
				if errors.As(err, &qerr) {
					return fmt.Errorf("%s supports %g to %g microns, not %g",
						qerr.Grinder, qerr.MinMicrons, qerr.MaxMicrons, qerr.TargetMicrons)
				}
				if errors.Is(err, internalerr.ErrNotFound) {
					return fmt.Errorf("no grinder matching %q", args[0])
				}
				return err
			}

			if asJSON {
				return writeResultJSON(cmd, opts, res)
			}
			printResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&methodFilter, "method", "", "only show brew methods whose name contains this")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON instead of text")

	return cmd
}

// formatSetting renders a setting for humans: simple settings read as clicks,
// compound settings are already self-describing.
func formatSetting(setting, format string) string {
	if format == string(dial.FormatSimple) {
		return setting + " clicks"
	}
	return setting
}

func printResult(cmd *cobra.Command, res recommend.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Grinder: %s\n", res.Grinder.Name)
	if res.Grinder.MinMicrons != nil && res.Grinder.MaxMicrons != nil {
		fmt.Fprintf(out, "Micron Range: %g - %g microns\n", *res.Grinder.MinMicrons, *res.Grinder.MaxMicrons)
	}
	fmt.Fprintf(out, "Target: %g microns\n", res.TargetMicrons)
	if res.CalculatedSetting != nil {
		fmt.Fprintf(out, "Calculated Setting: %s\n", formatSetting(*res.CalculatedSetting, res.SettingFormat))
	}
	fmt.Fprintf(out, "Grind Category: %s\n", res.GrindCategory)

	if len(res.MatchingMethods) == 0 {
		fmt.Fprintln(out, "\nNo matching brew methods found for this micron size.")
		return
	}
	fmt.Fprintln(out, "\nMatching Brew Methods:")
	for _, m := range res.MatchingMethods {
		if m.StartMicrons != nil && m.EndMicrons != nil {
			fmt.Fprintf(out, "  - %s: %g - %g microns\n", m.MethodName, *m.StartMicrons, *m.EndMicrons)
		} else {
			fmt.Fprintf(out, "  - %s\n", m.MethodName)
		}
		if m.StartSetting != nil && m.EndSetting != nil {
			fmt.Fprintf(out, "    Setting Range: %s - %s\n",
				formatSetting(*m.StartSetting, m.SettingFormat),
				formatSetting(*m.EndSetting, m.SettingFormat))
		}
	}
}

// queryOutput is the JSON shape of a query result, matching the export
// file's snake_case field naming.
type queryOutput struct {
	ID                string            `json:"id"`
	Grinder           grinderOutput     `json:"grinder"`
	TargetMicrons     float64           `json:"target_microns"`
	CalculatedSetting *string           `json:"calculated_setting"`
	SettingFormat     string            `json:"setting_format"`
	GrindCategory     string            `json:"grind_category"`
	MatchingMethods   []candidateOutput `json:"matching_methods"`
}

type grinderOutput struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	MinMicrons      *float64 `json:"min_microns"`
	MaxMicrons      *float64 `json:"max_microns"`
	URL             string   `json:"url"`
	ClicksPerNumber int      `json:"clicks_per_number"`
}

type candidateOutput struct {
	MethodName    string   `json:"method_name"`
	StartMicrons  *float64 `json:"start_microns"`
	EndMicrons    *float64 `json:"end_microns"`
	StartSetting  *string  `json:"start_setting"`
	EndSetting    *string  `json:"end_setting"`
	SettingFormat string   `json:"setting_format"`
	GrindCategory string   `json:"grind_category"`
}

func writeResultJSON(cmd *cobra.Command, opts *rootOptions, res recommend.Result) error {
	ref, err := opts.reference()
	if err != nil {
		return err
	}
	out := queryOutput{
		ID: res.ID,
		Grinder: grinderOutput{
			ID:              res.Grinder.ID,
			Name:            res.Grinder.Name,
			MinMicrons:      res.Grinder.MinMicrons,
			MaxMicrons:      res.Grinder.MaxMicrons,
			URL:             res.Grinder.URL,
			ClicksPerNumber: ref.ClicksPerNumber(res.Grinder.Name),
		},
		TargetMicrons:     res.TargetMicrons,
		CalculatedSetting: res.CalculatedSetting,
		SettingFormat:     res.SettingFormat,
		GrindCategory:     res.GrindCategory,
		MatchingMethods:   make([]candidateOutput, 0, len(res.MatchingMethods)),
	}
	for _, m := range res.MatchingMethods {
		out.MatchingMethods = append(out.MatchingMethods, candidateOutput(m))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
