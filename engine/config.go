package engine

import (
	"net/url"
	"time"

	"github.com/nsavage/needlecrawl/extract"
	"github.com/nsavage/needlecrawl/fetcher"
)

// largeCrawlThreshold is the cap at or above which the disk-backed
// bloom-filter frontier is used instead of the plain in-memory map, unless
// overridden by Config.ForceDiskFrontier. It is set above spec.md §6's
// entire accepted cap range (1..9999) so every spec-legal cap gets the
// exact, spec-literal in-memory map by default; the disk-backed path only
// engages for callers embedding the engine with a cap outside that range
// (or forcing it explicitly), trading exactness for bounded memory on
// crawls the spec itself doesn't size for.
const largeCrawlThreshold = 20000

// idlePollInterval is how long a worker sleeps before re-checking the
// frontier when it finds no pending URL, or before re-checking its own
// state while paused is driven by a condition variable rather than this
// interval (see worker.go). This bounds the "yield briefly and re-check"
// behavior spec.md §4.2 step 3 calls for, without a tight spin.
const idlePollInterval = 15 * time.Millisecond

// ExtractFunc discovers further URLs from a fetched body. sourceURL is the
// URL the body was fetched from, used by extractors that resolve relative
// references.
type ExtractFunc func(body, sourceURL string) []string

// DefaultExtractor applies the spec's regex-based extraction (extract.FindURLs),
// ignoring sourceURL since the pattern matches absolute URLs only.
func DefaultExtractor(body, _ string) []string {
	return extract.FindURLs(body)
}

// HTMLExtractor discovers only anchor-tag hrefs, resolved against sourceURL.
// An opt-in alternative to DefaultExtractor for callers who want tighter,
// navigation-only discovery instead of the spec's broader regex scan.
func HTMLExtractor(body, sourceURL string) []string {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil
	}
	return extract.FromHTML(body, base)
}

// Config holds Engine configuration. The zero value is not directly usable;
// use DefaultConfig and override fields as needed.
type Config struct {
	RequestTimeout    time.Duration      // per-fetch wall-clock deadline (spec: 5s)
	UserAgent         string             // sent with every request
	RetryPolicy       fetcher.RetryPolicy // MaxRetries 0 = spec's single-attempt default
	RateLimit         int                // requests/sec across the whole crawl, 0 = unthrottled (spec default)
	RespectRobots     bool               // opt-in robots.txt compliance, off by default (spec Non-goal)
	Extractor         ExtractFunc        // URL discovery strategy, defaults to the spec's regex
	ForceDiskFrontier bool               // exercise the bloom-backed seen-set regardless of cap
	MemoryLimitMB     int64              // 0 disables the memory watcher
	Cap               int                // seen-set size limit; Start sets it from its cap argument
}

// DefaultConfig returns a Config matching spec.md's defaults exactly: 5s
// timeout, no retries, no rate limit, no robots.txt compliance, the spec's
// regex extractor.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: fetcher.DefaultTimeout,
		UserAgent:      "needlecrawl/1.0",
		RetryPolicy:    fetcher.RetryPolicy{},
		Extractor:      DefaultExtractor,
	}
}

func (c Config) withDefaults() Config {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = fetcher.DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = "needlecrawl/1.0"
	}
	if c.Extractor == nil {
		c.Extractor = DefaultExtractor
	}
	return c
}
