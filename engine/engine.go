// Package engine implements the crawl engine: a deduplicating URL frontier,
// a concurrent worker pool, and the command/event surface a presentation
// layer drives. It owns the frontier and the worker pool exclusively for
// the duration of a crawl, and detects termination (match found, frontier
// exhausted, or user Stop) the way spec.md §4.3 describes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nsavage/needlecrawl/fetcher"
	"github.com/nsavage/needlecrawl/ratelimit"
	"github.com/nsavage/needlecrawl/robots"
)

// ErrBadState is returned by Start when the engine is not in the Stop
// state.
var ErrBadState = errors.New("engine: invalid state transition")

// workerHandle is the Engine's bookkeeping for one running worker
// goroutine: its lifecycle state. The condition variable it parks on while
// paused is the Engine's shared cond.
type workerHandle struct {
	state atomic.Int32 // WorkerState
}

// Engine owns the frontier and the worker pool for one Start/Stop cycle.
// The zero value is not usable; construct with New.
type Engine struct {
	cfg       Config
	fetcher   *fetcher.Fetcher
	limiter   *ratelimit.Limiter
	robots    *robots.Checker
	memory    *memoryWatcher
	events    chan Event

	state atomic.Int32 // EngineState

	frontierMu   sync.Mutex
	pending      []string
	seen         seenSet
	pendingCount atomic.Int64 // len(pending), mirrored so report() never re-enters frontierMu

	workersMu sync.Mutex
	workers   []*workerHandle
	cond      *sync.Cond
	group     errgroup.Group

	statusMu      sync.Mutex
	resultEmitted bool
	inFlight      atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc

	needle string
}

// New creates an Engine. events is the channel the Engine pushes
// UrlStatusEvent/SearchResultEvent/DiagnosticEvent onto; pass a buffered
// channel the consumer drains continuously (the Engine's report() blocks
// on a full channel, exactly as the teacher's progressCh send does).
func New(cfg Config, events chan Event) *Engine {
	cfg = cfg.withDefaults()

	e := &Engine{
		cfg:    cfg,
		events: events,
		seen:   newMemSeenSet(),
	}
	e.cond = sync.NewCond(&e.workersMu)
	e.state.Store(int32(StateStop))

	e.fetcher = fetcher.New(
		fetcher.WithTimeout(cfg.RequestTimeout),
		fetcher.WithUserAgent(cfg.UserAgent),
	)
	if cfg.RateLimit > 0 {
		e.limiter = ratelimit.New(cfg.RateLimit)
	}
	if cfg.RespectRobots {
		e.robots = robots.New(cfg.UserAgent)
	}
	if cfg.MemoryLimitMB > 0 {
		e.memory = newMemoryWatcher(cfg.MemoryLimitMB)
	}

	return e
}

// GetStatus returns the engine's current lifecycle state.
func (e *Engine) GetStatus() EngineState {
	return EngineState(e.state.Load())
}

// Start seeds the frontier with seed, spawns nWorkers workers searching for
// needle, and transitions Stop→Process. Pre: GetStatus() == StateStop.
func (e *Engine) Start(ctx context.Context, seed string, nWorkers int, needle string, cap int) error {
	if EngineState(e.state.Load()) != StateStop {
		return fmt.Errorf("%w: Start requires Stop, got %s", ErrBadState, e.GetStatus())
	}
	if nWorkers < 1 {
		return fmt.Errorf("engine: n_workers must be >= 1, got %d", nWorkers)
	}
	if cap < 1 {
		return fmt.Errorf("engine: cap must be >= 1, got %d", cap)
	}
	if needle == "" {
		return errors.New("engine: needle must not be empty")
	}

	seen, err := newSeenSet(cap, e.cfg.ForceDiskFrontier)
	if err != nil {
		return fmt.Errorf("engine: create seen-set: %w", err)
	}

	e.cfg.Cap = cap

	e.frontierMu.Lock()
	e.seen = seen
	e.pending = nil
	e.frontierMu.Unlock()
	e.pendingCount.Store(0)

	e.statusMu.Lock()
	e.resultEmitted = false
	e.statusMu.Unlock()
	e.inFlight.Store(0)

	e.needle = needle
	e.ctx, e.cancel = context.WithCancel(ctx)

	// admit discards URLs while the state is Stop, so leave Stop first.
	e.state.Store(int32(StateProcess))

	// Seed the frontier before any worker starts (spec.md §3).
	e.admit(seed)

	e.workersMu.Lock()
	e.workers = make([]*workerHandle, 0, nWorkers)
	for i := 0; i < nWorkers; i++ {
		wh := &workerHandle{}
		wh.state.Store(int32(WorkerRunning))
		e.workers = append(e.workers, wh)
		e.group.Go(func() error {
			runWorker(e.ctx, e, wh, e.cond, &e.workersMu, e.fetcher, e.limiter, e.robots, e.cfg, needle)
			return nil
		})
	}
	e.workersMu.Unlock()

	return nil
}

// Pause transitions Process→Pause and signals every worker to stop pulling
// new URLs, letting any in-flight fetch complete. In any other state it
// does nothing.
func (e *Engine) Pause() {
	e.workersMu.Lock()
	defer e.workersMu.Unlock()

	if EngineState(e.state.Load()) != StateProcess {
		return
	}
	e.state.Store(int32(StatePause))
	for _, w := range e.workers {
		if WorkerState(w.state.Load()) != WorkerStopped {
			w.state.Store(int32(WorkerPaused))
		}
	}
}

// Resume transitions Pause→Process and wakes every paused worker. In any
// other state it does nothing.
func (e *Engine) Resume() {
	e.workersMu.Lock()
	defer e.workersMu.Unlock()

	if EngineState(e.state.Load()) != StatePause {
		return
	}
	e.state.Store(int32(StateProcess))
	for _, w := range e.workers {
		if WorkerState(w.state.Load()) != WorkerStopped {
			w.state.Store(int32(WorkerRunning))
		}
	}
	e.cond.Broadcast()
}

// Stop transitions any state to Stop, signals every worker to stop, joins
// all worker goroutines, and clears the frontier so a subsequent Start
// begins clean. Idempotent: calling Stop when already stopped is a no-op
// beyond re-clearing state that is already clear.
func (e *Engine) Stop() {
	e.workersMu.Lock()
	e.state.Store(int32(StateStop))
	for _, w := range e.workers {
		w.state.Store(int32(WorkerStopped))
	}
	e.workers = nil
	cancel := e.cancel
	e.cond.Broadcast()
	e.workersMu.Unlock()

	if cancel != nil {
		cancel()
	}
	_ = e.group.Wait()

	e.frontierMu.Lock()
	e.pending = nil
	if e.seen != nil {
		_ = e.seen.close()
		e.seen = newMemSeenSet()
	}
	e.frontierMu.Unlock()
	e.pendingCount.Store(0)

	e.statusMu.Lock()
	e.resultEmitted = false
	e.statusMu.Unlock()
}

// getURL pops the front of the pending queue, incrementing the in-flight
// counter on success. Returns ok=false if the queue is empty.
func (e *Engine) getURL() (string, bool) {
	e.frontierMu.Lock()
	defer e.frontierMu.Unlock()

	if len(e.pending) == 0 {
		return "", false
	}
	url := e.pending[0]
	e.pending = e.pending[1:]
	e.pendingCount.Add(-1)
	e.inFlight.Add(1)
	return url, true
}

// admit attempts to add url to the frontier, subject to the cap and dedup
// invariants in spec.md §3. Silently discards when the cap is reached, the
// URL was already seen, or the engine has stopped.
func (e *Engine) admit(url string) {
	e.frontierMu.Lock()
	defer e.frontierMu.Unlock()

	if EngineState(e.state.Load()) == StateStop {
		return
	}
	if e.seen.count() >= e.cfg.Cap && e.cfg.Cap > 0 {
		return
	}
	if e.memory != nil {
		if _, level := e.memory.check(); level == ThrottleCritical {
			return
		}
	}
	if !e.seen.testAndAdd(url) {
		return
	}
	e.pending = append(e.pending, url)
	e.pendingCount.Add(1)
}

// report publishes a status transition for url and runs the termination
// check, exactly as spec.md §4.3 describes: dropped silently if stopped,
// otherwise emitted; Found triggers a one-shot search_result(Found);
// terminal-and-not-Found triggers search_result(NotFound) once the
// in-flight counter and pending queue both go to zero. The pending-queue
// check reads pendingCount, an atomic counter mirroring len(e.pending),
// rather than re-entering frontierMu: spec.md §4.3/§5 requires the three
// mutexes never nest, and statusMu is already held here.
func (e *Engine) report(url string, status UrlStatus) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	if EngineState(e.state.Load()) == StateStop {
		return
	}

	e.emit(Event{UrlStatus: &UrlStatusEvent{URL: url, Status: status}})

	if status.Terminal() {
		e.inFlight.Add(-1)
	}

	if status == Found {
		if !e.resultEmitted {
			e.resultEmitted = true
			e.emit(Event{SearchResult: &SearchResultEvent{Result: ResultFound}})
		}
		return
	}

	if status != Process && !e.resultEmitted {
		if e.inFlight.Load() == 0 && e.pendingCount.Load() == 0 {
			e.resultEmitted = true
			e.emit(Event{SearchResult: &SearchResultEvent{Result: ResultNotFound}})
		}
	}
}

func (e *Engine) diagnostic(url, msg string) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	if EngineState(e.state.Load()) == StateStop {
		return
	}
	e.emit(Event{Diagnostic: &DiagnosticEvent{URL: url, Message: msg}})
}

func (e *Engine) emit(ev Event) {
	if e.events == nil {
		return
	}
	e.events <- ev
}
