// Package urlutil holds small URL predicates and canonicalization helpers
// used by the opt-in HTML-tokenizer discovery path (extract.FromHTML) and by
// the TUI's same-host highlighting. The spec's default regex extractor
// (extract.FindURLs) deliberately bypasses all of this — see Normalize's
// doc comment.
package urlutil

import (
	"net/url"
	"strings"
)

// SameSeedHost reports whether discovered shares seedHost's host, counting
// subdomains as in-scope (blog.example.com matches example.com). This never
// gates frontier admission — spec.md's frontier is plain FIFO with no
// domain restriction — it only lets the TUI flag a row that wandered off
// the seed's host in the live status view.
func SameSeedHost(discovered string, seedHost string) bool {
	parsed, err := url.Parse(discovered)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	seedHost = strings.ToLower(seedHost)

	return host == seedHost || strings.HasSuffix(host, "."+seedHost)
}

// IsCrawlableScheme reports whether rawURL names a scheme the Fetcher can
// issue a GET against. extract.FromHTML calls this before handing a
// discovered href to admit, so mailto:, tel:, and javascript: links never
// reach the frontier.
func IsCrawlableScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}
