// Package fetcher performs the single-GET HTTP fetch the crawl engine issues
// per URL: one request, one wall-clock deadline, and a classified outcome.
// HTTP status codes are never treated as errors — only transport-layer
// failures are classified, matching the source's behavior of inspecting
// QNetworkReply::NetworkError and never the response status.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the per-request wall-clock deadline from issuance to
// completion (spec: timeout_ms = 5000).
const DefaultTimeout = 5 * time.Second

// Fetcher issues a single HTTP GET per Fetch call, enforcing Timeout from
// request issuance to completion. The zero value is not usable; use New.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the default 5s per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithHTTPClient overrides the underlying *http.Client. Its Timeout field is
// overwritten to match the Fetcher's configured timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// New creates a Fetcher with the given options applied over sane defaults.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		timeout:   DefaultTimeout,
		userAgent: "needlecrawl/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client.Timeout = f.timeout
	return f
}

// Fetch performs a single GET against url. On success it returns the
// response body decoded (lossily) as UTF-8 text, regardless of HTTP status
// code. On any transport-layer failure it returns a classified error; the
// caller is expected to report the classification, never to retry
// unconditionally (retry is a separate, opt-in concern — see
// FetchWithRetry in retry.go).
//
// The deadline enforced is min(ctx's deadline, f.timeout): a caller that
// wants Stop to cancel an in-flight fetch promptly should derive ctx from a
// cancellable context and cancel it on Stop.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, *ClassifiedError) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", classify(err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(err)
	}

	return string(body), nil
}
