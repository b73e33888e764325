// Package ratelimit provides an adaptive, crawl-wide rate limiter. It is an
// opt-in strengthening of spec.md's unthrottled default (Config.RateLimit ==
// 0 disables it entirely) adapted from the teacher's AdaptiveLimiter: an
// exponential moving average of observed round-trip times nudges the
// token-bucket rate up or down so the crawl self-tunes to how fast the
// target actually responds, rather than hammering it at a fixed rate.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	minRateFloor   = 1.0
	maxRateCeiling = 200.0
	emaAlpha       = 0.2
	recoveryFactor = 1.1
	backoffFactor  = 0.5
)

// Limiter wraps a token-bucket rate.Limiter with RTT-based adaptation.
type Limiter struct {
	limiter     *rate.Limiter
	targetRTT   time.Duration
	mu          sync.RWMutex
	emaRTT      time.Duration
	currentRate float64
	adaptive    bool
}

// New creates a Limiter starting at initialRPS requests/sec, adapting
// around a 500ms target RTT.
func New(initialRPS int) *Limiter {
	return NewAdaptive(initialRPS, 500*time.Millisecond, true)
}

// NewAdaptive creates a Limiter with an explicit target RTT and adaptation
// toggle; adaptive=false behaves as a fixed-rate limiter.
func NewAdaptive(initialRPS int, targetRTT time.Duration, adaptive bool) *Limiter {
	clamped := clampRate(float64(initialRPS))
	return &Limiter{
		limiter:     rate.NewLimiter(rate.Limit(clamped), int(math.Ceil(clamped))),
		targetRTT:   targetRTT,
		currentRate: clamped,
		emaRTT:      targetRTT,
		adaptive:    adaptive,
	}
}

// Wait blocks until the limiter permits the next request or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// ObserveRTT feeds a completed request's round-trip time into the adaptive
// controller, nudging the rate up (server responded faster than target) or
// down (slower), clamped within [minRateFloor, maxRateCeiling] and capped
// to move at most backoffFactor per step.
func (l *Limiter) ObserveRTT(rtt time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.adaptive {
		return
	}

	newEMA := time.Duration(emaAlpha*float64(rtt) + (1-emaAlpha)*float64(l.emaRTT))
	l.emaRTT = newEMA

	ratio := float64(l.targetRTT) / float64(newEMA)
	var newRate float64
	if ratio < 1 {
		proposed := l.currentRate * ratio
		floor := l.currentRate * backoffFactor
		if proposed < floor {
			newRate = floor
		} else {
			newRate = proposed
		}
	} else {
		newRate = l.currentRate * recoveryFactor
	}
	newRate = clampRate(newRate)

	if math.Abs(newRate-l.currentRate) > 0.1 {
		l.currentRate = newRate
		l.limiter.SetLimit(rate.Limit(newRate))
		l.limiter.SetBurst(int(math.Ceil(newRate)))
	}
}

// CurrentRate returns the current rate limit in requests/sec.
func (l *Limiter) CurrentRate() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int(math.Round(l.currentRate))
}

func clampRate(rps float64) float64 {
	if rps < minRateFloor {
		return minRateFloor
	}
	if rps > maxRateCeiling {
		return maxRateCeiling
	}
	return rps
}
