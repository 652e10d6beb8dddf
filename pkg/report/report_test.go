package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/lockcheck/pkg/errors"
	"github.com/matzehuels/lockcheck/pkg/fetch"
)

func TestParseCutoff(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T12:30:00Z", time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-01-01T12:30:00", time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseCutoff(tt.in)
		if err != nil {
			t.Errorf("ParseCutoff(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseCutoff(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCutoffInvalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "01/02/2024"} {
		if _, err := ParseCutoff(in); !errors.Is(err, errors.ErrCodeInvalidDate) {
			t.Errorf("ParseCutoff(%q) err = %v, want INVALID_DATE", in, err)
		}
	}
}

func TestFilterAfter(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	results := []fetch.Result{
		{Package: "old", Version: "1.0.0", ReleaseDate: "2023-12-31T23:59:59.000Z"},
		{Package: "new", Version: "2.0.0", ReleaseDate: "2024-01-02T00:00:00.000Z"},
		{Package: "mystery", Version: "3.0.0", ReleaseDate: fetch.ReleaseUnknown},
		{Package: "failed", Version: "4.0.0", ReleaseDate: fetch.ReleaseError},
	}

	filtered := FilterAfter(results, cutoff)
	if len(filtered) != 1 {
		t.Fatalf("got %d entries, want 1: %v", len(filtered), filtered)
	}
	if filtered[0].Package != "new" {
		t.Errorf("got %q, want %q", filtered[0].Package, "new")
	}
}

func TestFilterAfterStrictlyAfter(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	results := []fetch.Result{
		{Package: "exact", ReleaseDate: "2024-01-01T00:00:00Z"},
	}
	if got := FilterAfter(results, cutoff); len(got) != 0 {
		t.Errorf("a release at exactly the cutoff must be excluded, got %v", got)
	}
}

func TestFilterAfterComparesParsedTimes(t *testing.T) {
	// String comparison would get these wrong: "...:01.500Z" sorts
	// before "...:01Z" lexically but is the later instant.
	cutoff := time.Date(2024, 6, 1, 0, 0, 1, 0, time.UTC)
	results := []fetch.Result{
		{Package: "at-cutoff", ReleaseDate: "2024-06-01T00:00:01Z"},
		{Package: "after", ReleaseDate: "2024-06-01T00:00:01.500Z"},
	}
	filtered := FilterAfter(results, cutoff)
	if len(filtered) != 1 || filtered[0].Package != "after" {
		t.Errorf("got %v, want only %q", filtered, "after")
	}
}

func TestBuildSortsNewestFirst(t *testing.T) {
	filtered := []fetch.Result{
		{Package: "a", ReleaseDate: "2024-02-01T00:00:00.000Z"},
		{Package: "b", ReleaseDate: "2024-06-01T00:00:00.000Z"},
		{Package: "c", ReleaseDate: "2024-04-01T00:00:00.000Z"},
	}

	rep := Build("2024-01-01", 10, filtered)

	want := []string{"b", "c", "a"}
	for i, name := range want {
		if rep.Packages[i].Package != name {
			t.Errorf("Packages[%d] = %q, want %q", i, rep.Packages[i].Package, name)
		}
	}
	if rep.TotalPackages != 10 {
		t.Errorf("TotalPackages = %d, want 10", rep.TotalPackages)
	}
	if rep.PackagesAfterDate != 3 {
		t.Errorf("PackagesAfterDate = %d, want 3", rep.PackagesAfterDate)
	}
	// Build copies; the caller's slice is untouched.
	if filtered[0].Package != "a" {
		t.Error("Build must not reorder its input")
	}
}

func TestBuildTotalCountsFailures(t *testing.T) {
	// Even when every lookup failed, the total reflects the parsed list.
	rep := Build("2024-01-01", 7, nil)
	if rep.TotalPackages != 7 {
		t.Errorf("TotalPackages = %d, want 7", rep.TotalPackages)
	}
	if rep.PackagesAfterDate != 0 {
		t.Errorf("PackagesAfterDate = %d, want 0", rep.PackagesAfterDate)
	}
}

func TestWriteJSON(t *testing.T) {
	rep := Build("2024-01-01", 2, []fetch.Result{
		{Package: "@babel/core", Version: "7.27.4", ReleaseDate: "2025-06-03T09:00:00.000Z"},
	})

	var buf bytes.Buffer
	if err := rep.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"cutoff_date", "total_packages", "packages_after_date", "packages"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("output missing %q field", key)
		}
	}
	// Scoped names survive serialization unmangled.
	if !strings.Contains(buf.String(), "@babel/core") {
		t.Error("scoped package name missing from output")
	}
}

func TestWriteJSONEmptyPackagesIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := Build("2024-01-01", 0, nil).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"packages": []`) {
		t.Errorf("empty packages should encode as [], got:\n%s", buf.String())
	}
}
