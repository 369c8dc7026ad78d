// Package cli implements the grindex command tree.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brewkit/grindex/pkg/grindex"
	"github.com/brewkit/grindex/pkg/grindex/fetch"
	"github.com/brewkit/grindex/pkg/grindex/refdata"
	"github.com/brewkit/grindex/pkg/grindex/store"
	"github.com/brewkit/grindex/pkg/grindex/store/sqlite"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	dbPath   string
	cacheDir string
	refPath  string
	logLevel string
	log      zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "grindex",
		Short: "Coffee grinder calibration engine",
		Long: `Grindex crawls grinder review pages, extracts dial-setting and
micron-range data, and answers "what setting gives me N microns" queries
against the collected calibration database.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			opts.log = newLogger(opts.logLevel)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.dbPath, "db", "coffee_grinders.db", "path to the SQLite database")
	pf.StringVar(&opts.cacheDir, "cache-dir", "page_cache", "directory for cached page HTML")
	pf.StringVar(&opts.refPath, "reference", "", "YAML file overriding the built-in reference tables")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newCrawlCmd(opts))
	cmd.AddCommand(newQueryCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newResetCmd(opts))

	return cmd
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if os.Getenv("LOG_FORMAT") == "json" {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}

// reference loads the override file when given, otherwise the built-ins.
func (o *rootOptions) reference() (*refdata.Reference, error) {
	if o.refPath == "" {
		return refdata.Default(), nil
	}
	return refdata.Load(o.refPath)
}

// openStore opens the SQLite database at the configured path.
func (o *rootOptions) openStore(ctx context.Context) (store.Store, error) {
	return sqlite.Open(ctx, o.dbPath)
}

// newEngine assembles a full engine: SQLite store, fetcher and reference
// tables. A nil fetcher builds a store-only engine whose fetches fail
// instead of panicking. The caller owns Close.
func (o *rootOptions) newEngine(ctx context.Context, fetcher fetch.Fetcher) (*grindex.Grindex, error) {
	if fetcher == nil {
		fetcher = fetch.Disabled{}
	}
	ref, err := o.reference()
	if err != nil {
		return nil, err
	}
	st, err := o.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return grindex.New(grindex.Options{
		Store:     st,
		Fetcher:   fetcher,
		Reference: ref,
		Logger:    o.log,
	}), nil
}
