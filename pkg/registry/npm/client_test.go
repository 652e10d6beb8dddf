package npm

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/lockcheck/pkg/httputil"
	"github.com/matzehuels/lockcheck/pkg/registry"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestReleaseDate(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"name": "lodash",
			"time": {
				"created": "2012-04-23T16:37:11.912Z",
				"4.17.21": "2021-02-20T15:42:16.891Z"
			}
		}`))
	})

	client := NewClient(srv.URL, nil, 1)
	date, err := client.ReleaseDate(t.Context(), "lodash", "4.17.21", false)
	if err != nil {
		t.Fatalf("ReleaseDate: %v", err)
	}
	// The timestamp passes through verbatim.
	if date != "2021-02-20T15:42:16.891Z" {
		t.Errorf("date = %q, want %q", date, "2021-02-20T15:42:16.891Z")
	}
}

func TestReleaseDateVersionAbsent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "lodash", "time": {"1.0.0": "2012-04-23T16:37:11.912Z"}}`))
	})

	client := NewClient(srv.URL, nil, 1)
	_, err := client.ReleaseDate(t.Context(), "lodash", "9.9.9", false)
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestReleaseDatePackageMissing(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	client := NewClient(srv.URL, nil, 1)
	_, err := client.ReleaseDate(t.Context(), "no-such-package", "1.0.0", false)
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestReleaseDateServerError(t *testing.T) {
	calls := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := NewClient(srv.URL, nil, 1)
	_, err := client.ReleaseDate(t.Context(), "lodash", "4.17.21", false)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, registry.ErrNotFound) {
		t.Error("5xx must not classify as not-found")
	}
	if calls != 1 {
		t.Errorf("got %d requests, want 1 (no retry by default)", calls)
	}
}

func TestReleaseDateMalformedBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"time": `))
	})

	client := NewClient(srv.URL, nil, 1)
	_, err := client.ReleaseDate(t.Context(), "lodash", "4.17.21", false)
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestScopedNameEncoding(t *testing.T) {
	var gotURI string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		w.Write([]byte(`{"name": "@babel/core", "time": {"7.27.4": "2025-06-03T09:00:00.000Z"}}`))
	})

	client := NewClient(srv.URL, nil, 1)
	date, err := client.ReleaseDate(t.Context(), "@babel/core", "7.27.4", false)
	if err != nil {
		t.Fatalf("ReleaseDate: %v", err)
	}
	if date != "2025-06-03T09:00:00.000Z" {
		t.Errorf("date = %q", date)
	}
	if gotURI != "/@babel%2Fcore" {
		t.Errorf("request URI = %q, want %q", gotURI, "/@babel%2Fcore")
	}
}

func TestPackumentCaching(t *testing.T) {
	calls := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{
			"name": "lodash",
			"time": {"4.17.20": "2020-08-13T16:53:54.152Z", "4.17.21": "2021-02-20T15:42:16.891Z"}
		}`))
	})

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	client := NewClient(srv.URL, cache, 1)

	for _, version := range []string{"4.17.21", "4.17.20", "4.17.21"} {
		if _, err := client.ReleaseDate(t.Context(), "lodash", version, false); err != nil {
			t.Fatalf("ReleaseDate(%s): %v", version, err)
		}
	}
	if calls != 1 {
		t.Errorf("got %d requests, want 1 (packument cached across versions)", calls)
	}

	// refresh bypasses the cache.
	if _, err := client.ReleaseDate(t.Context(), "lodash", "4.17.21", true); err != nil {
		t.Fatalf("ReleaseDate refresh: %v", err)
	}
	if calls != 2 {
		t.Errorf("got %d requests after refresh, want 2", calls)
	}
}
