package robots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAllowed_DisallowedPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := New("testbot")
	allowed, err := c.Allowed(context.Background(), ts.URL+"/private/page")
	if err != nil {
		t.Fatalf("Allowed() error = %v", err)
	}
	if allowed {
		t.Error("expected /private/page to be disallowed")
	}
}

func TestAllowed_AllowedPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := New("testbot")
	allowed, err := c.Allowed(context.Background(), ts.URL+"/public/page")
	if err != nil {
		t.Fatalf("Allowed() error = %v", err)
	}
	if !allowed {
		t.Error("expected /public/page to be allowed")
	}
}

func TestAllowed_MissingRobotsFailsOpen(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := New("testbot")
	allowed, err := c.Allowed(context.Background(), ts.URL+"/anything")
	if err != nil {
		t.Fatalf("Allowed() error = %v", err)
	}
	if !allowed {
		t.Error("expected a missing robots.txt to fail open (allow)")
	}
}

func TestAllowed_NetworkErrorFailsOpen(t *testing.T) {
	c := New("testbot")
	allowed, err := c.Allowed(context.Background(), "http://127.0.0.1:1/page")
	if err == nil {
		t.Error("expected a network error to be returned for diagnostics")
	}
	if !allowed {
		t.Error("expected a network error to fail open (allow)")
	}
}

func TestAllowed_CachesByHost(t *testing.T) {
	var robotsHits int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits++
			w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := New("testbot")
	for i := 0; i < 3; i++ {
		if _, err := c.Allowed(context.Background(), ts.URL+"/private/x"); err != nil {
			t.Fatalf("Allowed() error = %v", err)
		}
	}
	if robotsHits != 1 {
		t.Errorf("robots.txt was fetched %d times, want 1 (cached)", robotsHits)
	}
}

func TestClearCache(t *testing.T) {
	c := New("testbot")
	c.cache.Store("example.com", &cachedRobots{})
	c.ClearCache()
	if _, ok := c.cache.Load("example.com"); ok {
		t.Error("expected ClearCache to empty the cache")
	}
}
