package extract

import (
	"net/url"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	return u
}

func TestFromHTML_ResolvesRelativeHrefs(t *testing.T) {
	body := `<html><body>
		<a href="/about">About</a>
		<a href="https://other.com/x">Other</a>
		<a href="mailto:a@b.com">Mail</a>
		<a href="">Empty</a>
	</body></html>`

	got := FromHTML(body, mustParse(t, "https://example.com/home"))
	want := []string{"https://example.com/about", "https://other.com/x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromHTML() = %v, want %v", got, want)
	}
}

func TestFromHTML_DeduplicatesLinks(t *testing.T) {
	body := `<a href="/a">1</a><a href="/a">2</a><a href="/a#frag">3</a>`
	got := FromHTML(body, mustParse(t, "https://example.com/"))
	want := []string{"https://example.com/a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromHTML() = %v, want %v", got, want)
	}
}

func TestFromHTML_NoAnchors(t *testing.T) {
	got := FromHTML("<html><body><p>no links here</p></body></html>", mustParse(t, "https://example.com/"))
	if len(got) != 0 {
		t.Errorf("FromHTML() = %v, want empty", got)
	}
}
