package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nsavage/needlecrawl/fetcher"
	"github.com/nsavage/needlecrawl/ratelimit"
	"github.com/nsavage/needlecrawl/robots"
)

// frontierAccess is the three functional dependencies spec.md §4.2 hands a
// worker: pop a URL, publish a status, try to admit a discovered URL. The
// Engine implements this surface directly; expressing it here keeps the
// dependency explicit rather than letting runWorker reach into Engine
// internals.
type frontierAccess interface {
	getURL() (string, bool)
	report(url string, status UrlStatus)
	admit(url string)
}

// runWorker is the worker main loop from spec.md §4.2, steps 1-8, run as
// one goroutine per worker. It exits when wh transitions to Stopped or ctx
// is canceled while idling.
func runWorker(
	ctx context.Context,
	fa frontierAccess,
	wh *workerHandle,
	cond *sync.Cond,
	workersMu *sync.Mutex,
	f *fetcher.Fetcher,
	limiter *ratelimit.Limiter,
	robotsChecker *robots.Checker,
	cfg Config,
	needle string,
) {
	diagnose, _ := fa.(interface{ diagnostic(url, msg string) })

	for {
		switch WorkerState(wh.state.Load()) {
		case WorkerStopped:
			return
		case WorkerPaused:
			workersMu.Lock()
			for WorkerState(wh.state.Load()) == WorkerPaused {
				cond.Wait()
			}
			workersMu.Unlock()
			continue
		}

		url, ok := fa.getURL()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(idlePollInterval):
			}
			continue
		}

		fa.report(url, Process)

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		if robotsChecker != nil {
			allowed, err := robotsChecker.Allowed(ctx, url)
			if err != nil && diagnose != nil {
				diagnose.diagnostic(url, fmt.Sprintf("robots.txt check: %v", err))
			}
			if !allowed {
				fa.report(url, NotFound)
				continue
			}
		}

		fetchStart := time.Now()
		var body string
		var cerr *fetcher.ClassifiedError
		if cfg.RetryPolicy.MaxRetries > 0 {
			body, cerr = f.FetchWithRetry(ctx, url, cfg.RetryPolicy)
		} else {
			body, cerr = f.Fetch(ctx, url)
		}
		if limiter != nil {
			limiter.ObserveRTT(time.Since(fetchStart))
		}

		if cerr != nil {
			fa.report(url, mapErrorKind(cerr.Kind))
			continue
		}

		if strings.Contains(body, needle) {
			fa.report(url, Found)
			continue
		}

		for _, discovered := range cfg.Extractor(body, url) {
			fa.admit(discovered)
		}
		fa.report(url, NotFound)
	}
}

// mapErrorKind maps a fetcher.ErrorKind to its UrlStatus, mirroring the
// one-to-one WorkerResult -> UrlSearchStatus table in the original source.
func mapErrorKind(kind fetcher.ErrorKind) UrlStatus {
	switch kind {
	case fetcher.KindConnectionRefused:
		return ErrConnectionRefused
	case fetcher.KindRemoteHostClosed:
		return ErrRemoteHostClosed
	case fetcher.KindHostNotFound:
		return ErrHostNotFound
	case fetcher.KindTimeout:
		return ErrTimeout
	case fetcher.KindOperationCanceled:
		return ErrOperationCanceled
	case fetcher.KindSslHandshake:
		return ErrSslHandshake
	case fetcher.KindTemporaryNetwork:
		return ErrTemporaryNetwork
	case fetcher.KindNetworkSession:
		return ErrNetworkSession
	case fetcher.KindUnknownNetwork:
		return ErrUnknownNetwork
	case fetcher.KindProtocolUnknown:
		return ErrProtocolUnknown
	default:
		return ErrUnknown
	}
}
