// Package extract discovers further URLs inside a fetched response body.
// FindURLs implements the spec's exact regex-based extraction; FromHTML is
// an opt-in tokenizer-based alternative grounded on the teacher's anchor
// extractor, for callers who want href-only (not bare-text) discovery.
package extract

import "regexp"

// urlPattern is the spec's URL-recognition regex verbatim:
// https?://(www\.)?[-A-Za-z0-9@:%._+~#=]{1,256}\.[A-Za-z0-9()]{1,6}\b([-A-Za-z0-9()@:%_+.~#?&/=]*)
var urlPattern = regexp.MustCompile(
	`(?i)https?://(www\.)?[-A-Za-z0-9@:%._+~#=]{1,256}\.[A-Za-z0-9()]{1,6}\b([-A-Za-z0-9()@:%_+.~#?&/=]*)`,
)

// FindURLs applies the spec's URL regex to body in global-match mode and
// returns every full match in the order encountered. Matches are not
// deduplicated here — the frontier's admit step owns deduplication.
func FindURLs(body string) []string {
	return urlPattern.FindAllString(body, -1)
}
