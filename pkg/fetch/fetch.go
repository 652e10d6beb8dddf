// Package fetch runs release-date lookups for a list of packages over a
// bounded worker pool and collects the results in input order.
//
// Failures never abort a run: every lookup outcome is folded into the
// result's release date, with [ReleaseUnknown] standing in for packages
// or versions the registry does not know and [ReleaseError] for network
// or decode failures. The caller always gets exactly one result per
// input ref.
package fetch

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/lockcheck/pkg/lockfile"
	"github.com/matzehuels/lockcheck/pkg/registry"
)

// DefaultWorkers is the worker pool size used when Options.Workers is unset.
const DefaultWorkers = 10

// Sentinel release dates for lookups that did not yield a timestamp.
const (
	// ReleaseUnknown means the package or version is not published in
	// the registry. Not an error; unpublished private packages and
	// registry overrides land here.
	ReleaseUnknown = "Unknown"

	// ReleaseError means the lookup failed (network failure, timeout,
	// unexpected status, malformed response).
	ReleaseError = "Error"
)

// Result pairs a package with its resolved release date, which is
// either a verbatim ISO-8601 timestamp or one of the sentinels.
type Result struct {
	Package     string `json:"package"`
	Version     string `json:"version"`
	ReleaseDate string `json:"release_date"`
}

// Found reports whether the result carries a real timestamp rather
// than a sentinel.
func (r Result) Found() bool {
	return r.ReleaseDate != ReleaseUnknown && r.ReleaseDate != ReleaseError
}

// Lookup resolves a single package version to its publish timestamp.
// Implementations report missing packages with [registry.ErrNotFound].
type Lookup interface {
	ReleaseDate(ctx context.Context, name, version string, refresh bool) (string, error)
}

// Progress observes lookup completions. It is called once per finished
// ref with the running completed count; calls come from worker
// goroutines, so implementations must be safe for concurrent use.
type Progress func(ref lockfile.PackageRef, ok bool, completed, total int)

// Options configures a fetch run.
type Options struct {
	Workers  int      // pool size (default 10, minimum 1)
	Refresh  bool     // bypass the HTTP response cache
	Progress Progress // completion observer (optional)
}

// All resolves release dates for every ref using a fixed-size worker
// pool. The returned slice has exactly one entry per input ref, in
// input order, regardless of worker count or completion order. Each
// worker writes to its own pre-assigned slot, so no locking is needed.
func All(ctx context.Context, lookup Lookup, refs []lockfile.PackageRef, opts Options) []Result {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	results := make([]Result, len(refs))
	var completed atomic.Int64

	var g errgroup.Group
	g.SetLimit(workers)
	for i, ref := range refs {
		g.Go(func() error {
			date, err := lookup.ReleaseDate(ctx, ref.Name, ref.Version, opts.Refresh)
			switch {
			case errors.Is(err, registry.ErrNotFound):
				date = ReleaseUnknown
			case err != nil:
				date = ReleaseError
			}
			results[i] = Result{Package: ref.Name, Version: ref.Version, ReleaseDate: date}

			if opts.Progress != nil {
				opts.Progress(ref, err == nil, int(completed.Add(1)), len(refs))
			} else {
				completed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures become sentinels

	return results
}
