package cli

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/brewkit/grindex/pkg/grindex/fetch"
)

const defaultChartURL = "https://honestcoffeeguide.com/coffee-grind-size-chart/"

func newCrawlCmd(opts *rootOptions) *cobra.Command {
	var (
		chartURL     string
		limit        int
		refreshCache bool
		delay        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl grinder pages and populate the calibration database",
		Long: `Fetches the grind-size chart page, follows every grinder review link
found there and extracts each grinder's calibration data. Pages are cached
on disk, so re-runs only hit the network for uncached pages.`,
		Example: `  # Crawl everything linked from the default chart page
  grindex crawl

  # Re-fetch the first five pages, ignoring the cache
  grindex crawl --limit 5 --refresh-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fetcher := &fetch.Cache{
				Dir: opts.cacheDir,
				Inner: &fetch.HTTP{
					Client: &http.Client{Timeout: 30 * time.Second},
					Delay:  delay,
					Log:    opts.log,
				},
				Refresh: refreshCache,
				Log:     opts.log,
			}

			eng, err := opts.newEngine(ctx, fetcher)
			if err != nil {
				return err
			}
			defer eng.Close()

			processed, err := eng.Crawl(ctx, chartURL, limit)
			if err != nil {
				return err
			}
			opts.log.Info().Int("grinders", processed).Msg("crawl finished")
			return nil
		},
	}

	cmd.Flags().StringVar(&chartURL, "chart-url", defaultChartURL, "grind-size chart page to start from")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of grinder pages to process (0 = all)")
	cmd.Flags().BoolVar(&refreshCache, "refresh-cache", false, "re-fetch pages even when cached")
	cmd.Flags().DurationVar(&delay, "delay", 500*time.Millisecond, "minimum delay between HTTP requests")

	return cmd
}
