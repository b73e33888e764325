package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q, want test-agent", got)
		}
		w.Write([]byte("hello world"))
	}))
	defer ts.Close()

	f := New(WithUserAgent("test-agent"))
	body, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if body != "hello world" {
		t.Errorf("body = %q, want %q", body, "hello world")
	}
}

func TestFetch_HTTPErrorStatusIsNotAFetchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))
	defer ts.Close()

	f := New()
	body, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want nil (HTTP status is not a transport error)", err)
	}
	if body != "not found" {
		t.Errorf("body = %q, want %q", body, "not found")
	}
}

func TestFetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer ts.Close()

	f := New(WithTimeout(10 * time.Millisecond))
	_, err := f.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if err.Kind != KindTimeout {
		t.Errorf("Kind = %v, want KindTimeout", err.Kind)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := ts.URL
	ts.Close() // nothing is listening anymore

	f := New(WithTimeout(time.Second))
	_, err := f.Fetch(context.Background(), addr)
	if err == nil {
		t.Fatal("expected a connection-refused error")
	}
	if err.Kind != KindConnectionRefused {
		t.Errorf("Kind = %v, want KindConnectionRefused", err.Kind)
	}
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	f := New()
	_, err := f.Fetch(context.Background(), "ftp://example.com")
	if err == nil {
		t.Fatal("expected a protocol-unknown error")
	}
	if err.Kind != KindProtocolUnknown {
		t.Errorf("Kind = %v, want KindProtocolUnknown", err.Kind)
	}
}

func TestFetch_ParentContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New()
	_, err := f.Fetch(ctx, ts.URL)
	if err == nil {
		t.Fatal("expected an error from an already-canceled context")
	}
	if err.Kind != KindOperationCanceled {
		t.Errorf("Kind = %v, want KindOperationCanceled", err.Kind)
	}
}

func TestClassifiedError_ErrorAndUnwrap(t *testing.T) {
	inner := context.DeadlineExceeded
	ce := classify(inner)
	if !strings.Contains(ce.Error(), inner.Error()) {
		t.Errorf("Error() = %q, want to contain %q", ce.Error(), inner.Error())
	}
	if ce.Unwrap() != inner {
		t.Errorf("Unwrap() = %v, want %v", ce.Unwrap(), inner)
	}
}
