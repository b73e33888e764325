package fetcher

import (
	"context"
	"time"
)

// RetryPolicy configures optional exponential-backoff retry around Fetch.
// The spec's Worker invokes the Fetcher exactly once per URL; RetryPolicy
// is an opt-in strengthening for callers who want transient failures
// retried before they're reported as terminal. The zero value
// (MaxRetries: 0) performs no retries, matching the spec's default
// single-attempt behavior exactly.
type RetryPolicy struct {
	MaxRetries int           // additional attempts beyond the first
	BaseDelay  time.Duration // initial backoff delay
	MaxDelay   time.Duration // backoff cap
}

// DefaultRetryPolicy returns a conservative policy: 2 retries, 1s base
// delay, 30s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, BaseDelay: time.Second, MaxDelay: 30 * time.Second}
}

// FetchWithRetry wraps Fetch with exponential backoff, retrying only on
// error kinds that plausibly indicate a transient condition (timeout,
// temporary network, network session, remote host closed). Connection
// refused, SSL, protocol, and unknown errors are not retried.
func (f *Fetcher) FetchWithRetry(ctx context.Context, url string, policy RetryPolicy) (string, *ClassifiedError) {
	backoff := policy.BaseDelay
	if backoff <= 0 {
		backoff = time.Second
	}
	maxDelay := policy.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	var lastErr *ClassifiedError
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", classify(ctx.Err())
			case <-time.After(backoff):
				backoff = min(backoff*2, maxDelay)
			}
		}

		body, err := f.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isRetryableKind(err.Kind) {
			return "", err
		}
	}

	return "", lastErr
}

func isRetryableKind(kind ErrorKind) bool {
	switch kind {
	case KindTimeout, KindTemporaryNetwork, KindNetworkSession, KindRemoteHostClosed:
		return true
	default:
		return false
	}
}
