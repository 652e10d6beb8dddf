// Package report filters fetched release dates against a cutoff and
// builds the final JSON report.
//
// A package makes it into the report when its release date parses as an
// ISO-8601 timestamp strictly after the cutoff. Sentinel dates
// ("Unknown", "Error") never appear in the filtered list but still
// count toward the total, so a run with partial fetch failures produces
// a complete, honest report.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/matzehuels/lockcheck/pkg/errors"
	"github.com/matzehuels/lockcheck/pkg/fetch"
)

// Report is the final output document.
type Report struct {
	CutoffDate        string         `json:"cutoff_date"`
	TotalPackages     int            `json:"total_packages"`
	PackagesAfterDate int            `json:"packages_after_date"`
	Packages          []fetch.Result `json:"packages"`
}

// cutoffLayouts are the accepted cutoff date forms, tried in order.
var cutoffLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseCutoff parses a user-supplied cutoff date. Plain dates and
// timestamps without an offset are treated as UTC.
func ParseCutoff(s string) (time.Time, error) {
	for _, layout := range cutoffLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidDate,
		"invalid date %q: use ISO 8601 (e.g. 2024-01-01)", s)
}

// FilterAfter returns the results whose release date parses and is
// strictly after cutoff. Comparison is on parsed times, not strings:
// timestamps of different precision compare correctly.
func FilterAfter(results []fetch.Result, cutoff time.Time) []fetch.Result {
	var filtered []fetch.Result
	for _, r := range results {
		if !r.Found() {
			continue
		}
		released, err := time.Parse(time.RFC3339, r.ReleaseDate)
		if err != nil {
			continue
		}
		if released.After(cutoff) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Build assembles the report from the filtered results, sorted newest
// first. total is the number of originally parsed packages, counting
// entries whose lookups failed.
func Build(cutoff string, total int, filtered []fetch.Result) Report {
	sorted := make([]fetch.Result, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := time.Parse(time.RFC3339, sorted[i].ReleaseDate)
		tj, _ := time.Parse(time.RFC3339, sorted[j].ReleaseDate)
		return ti.After(tj)
	})

	return Report{
		CutoffDate:        cutoff,
		TotalPackages:     total,
		PackagesAfterDate: len(sorted),
		Packages:          sorted,
	}
}

// WriteJSON encodes the report as indented JSON and writes it to w.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Export writes the report to a JSON file at path.
// This is a convenience wrapper around [Report.WriteJSON].
func (r Report) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return r.WriteJSON(f)
}
