// Package pypi resolves the latest released version of packages against
// the PyPI JSON API, with response caching and automatic retries.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mindw/pipshow/pkg/cache"
	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/pep503"
)

const (
	// DefaultBaseURL is the JSON API root of the public index.
	DefaultBaseURL = "https://pypi.org/pypi"

	// DefaultTTL is how long successful lookups stay cached.
	DefaultTTL = 24 * time.Hour

	httpTimeout = 10 * time.Second
	keyPrefix   = "pypi:latest:"
)

// Options configures a Client. The zero value queries the public index
// with the default cache lifetime.
type Options struct {
	BaseURL string        // index JSON API root, DefaultBaseURL when empty
	TTL     time.Duration // cache lifetime, DefaultTTL when zero
	Refresh bool          // bypass cached entries and refetch
}

// Client answers latest-version lookups against a PyPI-compatible JSON
// API. It implements [inspect.VersionSource]. Lookups go through the
// cache backend first; misses are fetched with retries and stored back.
//
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	backend cache.Cache
	baseURL string
	ttl     time.Duration
	refresh bool
}

// NewClient creates a Client over the given cache backend. Pass a
// [cache.NullCache] to disable caching.
func NewClient(backend cache.Cache, opts Options) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		backend: backend,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		ttl:     opts.TTL,
		refresh: opts.Refresh,
	}
}

// LatestVersion returns the newest released version of the named
// package. The name is normalized before the lookup, so any accepted
// spelling hits the same cache entry.
//
// Returns [cache.ErrNotFound] (wrapped) when the index does not know
// the package and [cache.ErrNetwork] (wrapped) for HTTP failures.
func (c *Client) LatestVersion(ctx context.Context, name string) (string, error) {
	pkg := pep503.Normalize(name)
	if pkg == "" {
		return "", errors.New(errors.ErrCodeInvalidPackage, "empty package name")
	}

	var version string
	err := c.cached(ctx, keyPrefix+pkg, &version, func() error {
		v, err := c.fetch(ctx, pkg)
		if err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		return "", err
	}
	return version, nil
}

// cached retrieves a value from the backend or executes fetch and
// stores the result. The fetch function should populate v.
func (c *Client) cached(ctx context.Context, key string, v any, fetch func() error) error {
	if !c.refresh {
		if data, ok, _ := c.backend.Get(ctx, key); ok {
			if err := json.Unmarshal(data, v); err == nil {
				return nil
			}
		}
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.backend.Set(ctx, key, data, c.ttl)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, pkg string) (string, error) {
	url := fmt.Sprintf("%s/%s/json", c.baseURL, pkg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode index response for %s: %w", pkg, err)
	}
	if data.Info.Version == "" {
		return "", fmt.Errorf("no version in index response for %s", pkg)
	}
	return data.Info.Version, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: not on index", cache.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return cache.Retryable(&errors.RateLimitedError{RetryAfter: retryAfter})
	case resp.StatusCode >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode)
	}
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
