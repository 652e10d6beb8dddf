package npm

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/lockcheck/pkg/httputil"
	"github.com/matzehuels/lockcheck/pkg/registry"
)

// DefaultBaseURL is the public npm registry endpoint.
const DefaultBaseURL = "https://registry.npmjs.org"

// Client fetches publish timestamps from an npm-compatible registry.
type Client struct {
	*registry.Client
	baseURL string
}

// NewClient creates a Client against baseURL (the public registry if
// empty). cache may be nil to disable packument caching; attempts is
// the per-request retry budget (1 = no retry).
func NewClient(baseURL string, cache *httputil.Cache, attempts int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cache != nil {
		cache = cache.Namespace("npm:")
	}
	return &Client{
		Client:  registry.NewClient(cache, nil, attempts),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ReleaseDate returns the ISO-8601 publish timestamp for the given
// package version, verbatim from the registry. It returns
// [registry.ErrNotFound] when the package does not exist or the version
// never appears in the packument's time map, and a network or decode
// error otherwise.
func (c *Client) ReleaseDate(ctx context.Context, name, version string, refresh bool) (string, error) {
	times, err := c.fetchTimes(ctx, name, refresh)
	if err != nil {
		return "", err
	}
	date, ok := times[version]
	if !ok {
		return "", fmt.Errorf("%w: %s@%s", registry.ErrNotFound, name, version)
	}
	return date, nil
}

func (c *Client) fetchTimes(ctx context.Context, name string, refresh bool) (map[string]string, error) {
	var times map[string]string
	err := c.Cached(ctx, name, refresh, &times, func() error {
		var data packument
		if err := c.Get(ctx, c.baseURL+"/"+encodeName(name), &data); err != nil {
			return err
		}
		times = data.Time
		return nil
	})
	if err != nil {
		return nil, err
	}
	return times, nil
}

// encodeName URL-encodes a package name for the registry path. Scoped
// names keep the leading "@" but encode the scope separator, the form
// the npm registry expects: "@babel/core" → "@babel%2Fcore".
func encodeName(name string) string {
	return strings.ReplaceAll(name, "/", "%2F")
}

type packument struct {
	Name string            `json:"name"`
	Time map[string]string `json:"time"`
}
