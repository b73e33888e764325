package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nsavage/needlecrawl/urlutil"
)

// FromHTML parses body as HTML and returns every absolute http(s) URL found
// in an anchor tag's href attribute, resolved against base and normalized.
// Unlike FindURLs, this only discovers navigable links, not every bare URL
// that happens to appear as text — useful when a caller wants tighter,
// anchor-only discovery instead of the spec's broader regex scan.
func FromHTML(body string, base *url.URL) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(body))
	seen := make(map[string]bool)
	var links []string

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.Data != "a" {
				continue
			}
			for _, attr := range token.Attr {
				if attr.Key != "href" {
					continue
				}
				href := attr.Val
				if href == "" {
					continue
				}
				hrefURL, err := url.Parse(href)
				if err != nil {
					continue
				}
				resolved := base.ResolveReference(hrefURL).String()
				if !urlutil.IsCrawlableScheme(resolved) {
					continue
				}
				normalized, err := urlutil.Normalize(resolved)
				if err != nil {
					continue
				}
				if !seen[normalized] {
					seen[normalized] = true
					links = append(links, normalized)
				}
			}
		}
	}
}
