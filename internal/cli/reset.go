package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newResetCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the calibration database",
		Long: `Removes the SQLite database file so the next crawl starts from
scratch. The page cache is left alone; cached pages will be re-parsed,
not re-downloaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.dbPath); os.IsNotExist(err) {
				opts.log.Info().Str("db", opts.dbPath).Msg("database does not exist, nothing to do")
				return nil
			}

			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete %s? [y/N] ", opts.dbPath)
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, _ := reader.ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := os.Remove(opts.dbPath); err != nil {
				return err
			}
			opts.log.Info().Str("db", opts.dbPath).Msg("database deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete without asking")

	return cmd
}
