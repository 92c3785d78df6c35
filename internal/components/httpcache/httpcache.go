// Package httpcache stores response bodies of idempotent GET requests so repeated lookups do
// not hit a rate-sensitive source again.
package httpcache

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/purell"
	"github.com/z3c0/vistos-legacy/internal/components/telemetry"
)

const (
	report_cache_get = "cache.get"
	report_cache_set = "cache.set"
)

// Cache is implemented by Memory and Disk.
//
// note: fault injection point
type Cache interface {
	// Get returns false on a miss or an expired entry.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
}

// Key normalizes endpoint against base so equivalent urls share an entry. The namespace keeps
// sources that share a cache apart.
func Key(namespace string, base *url.URL, endpoint string) (string, error) {
	full, err := base.Parse(endpoint)
	if err != nil {
		return "", err
	}
	normalized := purell.NormalizeURL(
		full,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	return namespace + ":" + normalized, nil
}

// Fetch returns the cached body for key, or calls fetch and caches what it returns. A nil cache
// always calls fetch. Cache failures are reported and otherwise treated as misses.
func Fetch(ctx context.Context, cache Cache, tel telemetry.API, key string, fetch func() ([]byte, error)) ([]byte, error) {
	if cache == nil {
		return fetch()
	}
	tel = telemetry.OrNoop(tel)

	body, ok, err := cache.Get(ctx, key)
	if err != nil {
		tel.ReportWarning(report_cache_get, err, key)
	}
	if ok {
		tel.ReportDebug("cache hit", key)
		return body, nil
	}

	body, err = fetch()
	if err != nil {
		return nil, err
	}
	err = cache.Set(ctx, key, body)
	if err != nil {
		tel.ReportWarning(report_cache_set, err, key)
	}
	return body, nil
}
