package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Normalize canonicalizes a discovered URL before extract.FromHTML hands it
// to admit: lowercases the scheme and host, strips the fragment, and trims a
// trailing slash (root path "/" excepted), so that two anchor-tag variants
// of the same resource collapse to one frontier entry instead of two.
//
// extract.FindURLs, the spec's default regex-based discovery, does NOT call
// this — spec.md §3/§9 fixes the frontier's dedup as pure string equality
// for that path, and normalizing there would admit fewer URLs than the spec
// describes. Normalize exists only for the opt-in HTMLExtractor
// configuration (see DESIGN.md's open-question decisions).
func Normalize(discovered string) (string, error) {
	if discovered == "" {
		return "", errors.New("urlutil: cannot normalize an empty URL")
	}

	parsed, err := url.Parse(discovered)
	if err != nil {
		return "", fmt.Errorf("urlutil: normalize %q: %w", discovered, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("urlutil: %q has no scheme or host", discovered)
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	if parsed.Path != "/" && strings.HasSuffix(parsed.Path, "/") {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}

	return parsed.String(), nil
}
