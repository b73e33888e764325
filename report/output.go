package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes the summary as formatted JSON to w.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes the per-URL entries as CSV to w, always including a
// header row. Column order: url, status.
func WriteCSV(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"url", "status"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range s.Entries {
		if err := cw.Write([]string{e.URL, e.Status}); err != nil {
			return fmt.Errorf("write csv record for %s: %w", e.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}
