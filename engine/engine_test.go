package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// drainUntilResult collects events from ch until it closes or a SearchResultEvent
// arrives, whichever comes first, returning every event seen.
func drainUntilResult(t *testing.T, ch chan Event, timeout time.Duration) []Event {
	t.Helper()
	var got []Event
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, ev)
			if ev.SearchResult != nil {
				return got
			}
		case <-deadline:
			t.Fatal("timed out waiting for a search result")
			return nil
		}
	}
}

func newTestServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range pages {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
	}
	return httptest.NewServer(mux)
}

func TestEngine_FindsNeedleOnSeedPage(t *testing.T) {
	ts := newTestServer(t, map[string]string{"/": "the treasure is here"})
	defer ts.Close()

	events := make(chan Event, 32)
	e := New(DefaultConfig(), events)
	if err := e.Start(context.Background(), ts.URL+"/", 2, "treasure", 10); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.Stop()

	got := drainUntilResult(t, events, 2*time.Second)
	last := got[len(got)-1]
	if last.SearchResult == nil || last.SearchResult.Result != ResultFound {
		t.Fatalf("expected a Found result, got %+v", last)
	}
}

func TestEngine_ExhaustsFrontierWithoutMatch(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/":     "",
		"/a":    "",
		"/b":    "",
	})
	defer ts.Close()

	events := make(chan Event, 32)
	e := New(DefaultConfig(), events)
	if err := e.Start(context.Background(), ts.URL+"/", 2, "never-appears", 10); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.Stop()

	got := drainUntilResult(t, events, 2*time.Second)
	last := got[len(got)-1]
	if last.SearchResult == nil || last.SearchResult.Result != ResultNotFound {
		t.Fatalf("expected a NotFound result, got %+v", last)
	}
}

func TestEngine_FollowsDiscoveredLinks(t *testing.T) {
	var seedURL string
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()
	seedURL = ts.URL

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "go to %s/next", seedURL)
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("the needle is right here"))
	})

	events := make(chan Event, 32)
	e := New(DefaultConfig(), events)
	if err := e.Start(context.Background(), seedURL+"/", 1, "needle", 10); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.Stop()

	got := drainUntilResult(t, events, 2*time.Second)
	last := got[len(got)-1]
	if last.SearchResult == nil || last.SearchResult.Result != ResultFound {
		t.Fatalf("expected a Found result after following a discovered link, got %+v", last)
	}
}

func TestEngine_StartRejectsNonStopState(t *testing.T) {
	ts := newTestServer(t, map[string]string{"/": "x"})
	defer ts.Close()

	events := make(chan Event, 32)
	e := New(DefaultConfig(), events)
	if err := e.Start(context.Background(), ts.URL+"/", 1, "needle", 10); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.Stop()

	if err := e.Start(context.Background(), ts.URL+"/", 1, "needle", 10); err == nil {
		t.Error("expected Start to reject a second call while already running")
	}
}

func TestEngine_StartValidatesArguments(t *testing.T) {
	e := New(DefaultConfig(), nil)

	if err := e.Start(context.Background(), "http://x", 0, "needle", 10); err == nil {
		t.Error("expected an error for nWorkers < 1")
	}
	if err := e.Start(context.Background(), "http://x", 1, "needle", 0); err == nil {
		t.Error("expected an error for cap < 1")
	}
	if err := e.Start(context.Background(), "http://x", 1, "", 10); err == nil {
		t.Error("expected an error for an empty needle")
	}
}

func TestEngine_StopIsIdempotentAndAllowsRestart(t *testing.T) {
	ts := newTestServer(t, map[string]string{"/": "hay hay hay"})
	defer ts.Close()

	events := make(chan Event, 32)
	e := New(DefaultConfig(), events)
	if err := e.Start(context.Background(), ts.URL+"/", 1, "needle", 10); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	e.Stop()
	e.Stop() // idempotent

	if err := e.Start(context.Background(), ts.URL+"/", 1, "needle", 10); err != nil {
		t.Fatalf("Start() after Stop() error = %v", err)
	}
	e.Stop()
}

func TestEngine_CapEnforcement(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"/a": "nope",
		"/b": "nope",
		"/c": "nope",
		"/d": "nope",
	})
	defer ts.Close()

	events := make(chan Event, 64)
	e := New(DefaultConfig(), events)
	if err := e.Start(context.Background(), ts.URL+"/a", 1, "never", 1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.Stop()

	got := drainUntilResult(t, events, 2*time.Second)

	var checked int
	for _, ev := range got {
		if ev.UrlStatus != nil && ev.UrlStatus.Status.Terminal() {
			checked++
		}
	}
	if checked > 1 {
		t.Errorf("checked %d URLs, want at most 1 with cap=1", checked)
	}
}

func TestEngine_PauseAndResumeTransitionState(t *testing.T) {
	ts := newTestServer(t, map[string]string{"/": "nothing interesting"})
	defer ts.Close()

	events := make(chan Event, 32)
	e := New(DefaultConfig(), events)
	if err := e.Start(context.Background(), ts.URL+"/", 1, "unobtainium", 10); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.Stop()

	e.Pause()
	if e.GetStatus() != StatePause {
		t.Fatalf("GetStatus() = %v, want StatePause", e.GetStatus())
	}
	e.Resume()
	if e.GetStatus() != StateProcess {
		t.Fatalf("GetStatus() = %v, want StateProcess", e.GetStatus())
	}
}

func TestEngine_DoesNotEmitAfterStop(t *testing.T) {
	ts := newTestServer(t, map[string]string{"/": "slow page"})
	defer ts.Close()

	events := make(chan Event, 32)
	e := New(DefaultConfig(), events)
	if err := e.Start(context.Background(), ts.URL+"/", 1, "absent", 10); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	e.Stop()

	// Events emitted before Stop returned may still sit in the buffer.
	for drained := false; !drained; {
		select {
		case <-events:
		default:
			drained = true
		}
	}

	select {
	case ev, ok := <-events:
		if ok {
			t.Errorf("expected no further events after Stop, got %+v", ev)
		}
	case <-time.After(50 * time.Millisecond):
	}
}
