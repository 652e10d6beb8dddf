package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockcheck/pkg/fetch"
	"github.com/matzehuels/lockcheck/pkg/httputil"
	"github.com/matzehuels/lockcheck/pkg/lockfile"
	"github.com/matzehuels/lockcheck/pkg/registry/npm"
	"github.com/matzehuels/lockcheck/pkg/report"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	date     string // cutoff date, ISO 8601
	format   string // lock format override ("auto" detects)
	workers  int    // fetch worker pool size
	retries  int    // request attempts per package
	output   string // output file path (stdout if empty)
	registry string // registry base URL override
	refresh  bool   // bypass cached registry responses
	noCache  bool   // disable the response cache entirely

	ttl time.Duration // cache TTL, from config
}

// newCheckCmd creates the check command. Config file values seed the
// flag defaults, so flags always win.
func newCheckCmd(cfg config) *cobra.Command {
	opts := checkOpts{
		date:     cfg.Date,
		format:   "auto",
		workers:  cfg.Workers,
		retries:  cfg.Retries,
		registry: cfg.Registry,
		ttl:      cfg.cacheTTL(),
	}

	cmd := &cobra.Command{
		Use:   "check <lockfile>",
		Short: "Report packages published after the cutoff date",
		Long: `Check parses a dependency lock file, resolves every pinned version to
its npm registry publish date, and writes a JSON report of the packages
published strictly after the cutoff date.

The lock format is detected from the filename or content; pass --format
to force one.

Examples:
  lockcheck check bun.lock
  lockcheck check package-lock.json --date 2024-06-01 --workers 20
  lockcheck check renamed.lock --format yarn --output report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCheck(c.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.date, "date", "d", opts.date, "cutoff date (ISO 8601); packages published after it are reported")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "lock format: auto, bun, npm, yarn, pnpm, deno")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "concurrent fetch workers")
	cmd.Flags().IntVar(&opts.retries, "retries", opts.retries, "request attempts per package (1 = no retry)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.registry, "registry", opts.registry, "registry base URL (default https://registry.npmjs.org)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached registry responses")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")

	return cmd
}

func runCheck(ctx context.Context, path string, opts checkOpts) error {
	logger := loggerFromContext(ctx)

	cutoff, err := report.ParseCutoff(opts.date)
	if err != nil {
		return err
	}
	hint, err := lockfile.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	logger.Debugf("Parsing %s", path)
	refs, err := lockfile.ParseFile(path, hint)
	if err != nil {
		return err
	}
	logger.Infof("Found %d packages", len(refs))

	client := npm.NewClient(opts.registry, newCache(opts), opts.retries)

	fetchProgress := newProgress(logger)
	results := fetch.All(ctx, client, refs, fetch.Options{
		Workers:  opts.workers,
		Refresh:  opts.refresh,
		Progress: logProgress(logger),
	})
	fetchProgress.done(fmt.Sprintf("Fetched %d release dates", len(results)))

	filtered := report.FilterAfter(results, cutoff)
	rep := report.Build(opts.date, len(refs), filtered)

	if opts.output != "" {
		if err := rep.Export(opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	} else {
		if err := rep.WriteJSON(os.Stdout); err != nil {
			return err
		}
	}

	printSummary(rep, countFailures(results))
	return nil
}

// newCache builds the response cache, or nil when caching is off.
// Cache setup failures degrade to uncached operation: the check still
// works, just slower on repeat runs.
func newCache(opts checkOpts) *httputil.Cache {
	if opts.noCache {
		return nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil
	}
	ttl := opts.ttl
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cache, err := httputil.NewCache(dir, ttl)
	if err != nil {
		return nil
	}
	return cache
}

// logProgress adapts the logger into a fetch progress observer: one
// line per package, plus a running count every ten completions.
// Everything logs at debug level, so a non-verbose run stays quiet
// until the final summary.
func logProgress(logger *log.Logger) fetch.Progress {
	return func(ref lockfile.PackageRef, ok bool, completed, total int) {
		if ok {
			logger.Debugf("✓ %s", ref)
		} else {
			logger.Debugf("✗ %s", ref)
		}
		if completed%10 == 0 || completed == total {
			logger.Debugf("Progress: %d/%d packages fetched", completed, total)
		}
	}
}

func countFailures(results []fetch.Result) int {
	failures := 0
	for _, r := range results {
		if r.ReleaseDate == fetch.ReleaseError {
			failures++
		}
	}
	return failures
}
