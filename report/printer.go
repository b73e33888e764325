package report

import (
	"fmt"
	"io"
)

// PrintSummary writes a human-readable verdict and URL count to w.
func PrintSummary(w io.Writer, s Summary) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	switch s.Verdict {
	case "Found":
		writef("Match found: %s\n", s.MatchURL)
	case "NotFound":
		writef("No match found.\n")
	default:
		writef("Search stopped before a verdict was reached.\n")
	}
	writef("Checked %d URLs in %s\n", s.Checked, s.Duration.Round(1_000_000))
}
