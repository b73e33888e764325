// Package report provides types and output writers for a finished crawl,
// adapted from the teacher's result package: the same flat-array
// JSON/CSV/plain-text writers, applied to needle-search outcomes instead of
// broken-link results.
package report

import "time"

// Entry is one URL's final reported status.
type Entry struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Summary is the complete output of one Start cycle.
type Summary struct {
	Entries  []Entry       `json:"entries"`
	Verdict  string        `json:"verdict"` // "Found", "NotFound", or "" if stopped early
	MatchURL string        `json:"match_url,omitempty"`
	Checked  int           `json:"checked"`
	Duration time.Duration `json:"duration"`
}
