// Package robots provides opt-in robots.txt compliance, fetched and cached
// per host. Spec.md lists robots.txt as a Non-goal for the default crawl;
// this package exists so a caller can enable it via engine.Config without
// touching the engine's core frontier/worker logic.
package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

type cachedRobots struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

// Checker fetches and caches robots.txt rules per host. Errors (network,
// parse) result in allow-all (fail-open) behavior, with the error returned
// to the caller so it can be surfaced as a diagnostic rather than silently
// swallowed.
type Checker struct {
	client    *http.Client
	userAgent string
	cache     sync.Map // host -> *cachedRobots
	cacheTTL  time.Duration
}

// New creates a Checker that identifies itself with userAgent when
// fetching and testing robots.txt rules.
func New(userAgent string) *Checker {
	return &Checker{
		client:    &http.Client{Timeout: 5 * time.Second},
		userAgent: userAgent,
		cacheTTL:  time.Hour,
	}
}

// Allowed reports whether rawURL may be crawled by c's user agent. Errors
// are always paired with allowed=true (fail-open).
func (c *Checker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	host := parsed.Host
	if host == "" {
		return true, nil
	}

	if cached, ok := c.cache.Load(host); ok {
		entry, ok := cached.(*cachedRobots)
		if !ok || entry == nil {
			c.cache.Delete(host)
		} else if time.Since(entry.fetchedAt) < c.cacheTTL {
			if entry.data == nil {
				return true, nil
			}
			return entry.data.TestAgent(parsed.Path, c.userAgent), nil
		}
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		c.cacheAllowAll(host)
		return true, fmt.Errorf("create robots.txt request for %s: %w", host, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.cacheAllowAll(host)
		return true, fmt.Errorf("fetch robots.txt for %s: %w", host, err)
	}
	body, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		c.cacheAllowAll(host)
		return true, fmt.Errorf("read robots.txt body for %s: %w", host, readErr)
	}
	if closeErr != nil {
		c.cacheAllowAll(host)
		return true, fmt.Errorf("close robots.txt body for %s: %w", host, closeErr)
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		c.cacheAllowAll(host)
		return true, nil
	}

	parsedRobots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		c.cacheAllowAll(host)
		return true, fmt.Errorf("parse robots.txt for %s: %w", host, err)
	}
	if parsedRobots == nil {
		c.cacheAllowAll(host)
		return true, nil
	}

	c.cache.Store(host, &cachedRobots{data: parsedRobots, fetchedAt: time.Now()})
	return parsedRobots.TestAgent(parsed.Path, c.userAgent), nil
}

func (c *Checker) cacheAllowAll(host string) {
	c.cache.Store(host, &cachedRobots{data: nil, fetchedAt: time.Now()})
}

// ClearCache removes all cached robots.txt entries; useful for tests.
func (c *Checker) ClearCache() {
	c.cache = sync.Map{}
}
