package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nsavage/needlecrawl/engine"
	"github.com/nsavage/needlecrawl/report"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	successStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	urlStyle      = lipgloss.NewStyle()
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// statusOrder defines the display order for the final per-URL table,
// matching the severity ordering of the teacher's categoryOrder table.
var statusOrder = []engine.UrlStatus{
	engine.Found,
	engine.NotFound,
	engine.ErrTimeout,
	engine.ErrConnectionRefused,
	engine.ErrRemoteHostClosed,
	engine.ErrHostNotFound,
	engine.ErrSslHandshake,
	engine.ErrTemporaryNetwork,
	engine.ErrNetworkSession,
	engine.ErrProtocolUnknown,
	engine.ErrOperationCanceled,
	engine.ErrUnknownNetwork,
	engine.ErrUnknown,
}

func statusStyle(s engine.UrlStatus) lipgloss.Style {
	switch s {
	case engine.Found:
		return successStyle
	case engine.NotFound, engine.Process:
		return urlStyle
	default:
		return statusErrStyle
	}
}

// renderSummary produces a Lip Gloss styled summary grouping every checked
// URL by its terminal status, the way the teacher's RenderSummary groups
// broken links by error category.
func renderSummary(s report.Summary) string {
	var b strings.Builder

	switch s.Verdict {
	case "Found":
		b.WriteString(successStyle.Render(fmt.Sprintf("Match found: %s", s.MatchURL)))
	case "NotFound":
		b.WriteString(errorStyle.Render("No match found."))
	default:
		b.WriteString(dimStyle.Render("Search stopped before a verdict was reached."))
	}
	b.WriteString("\n")

	grouped := make(map[string][]report.Entry)
	for _, e := range s.Entries {
		grouped[e.Status] = append(grouped[e.Status], e)
	}

	for _, st := range statusOrder {
		entries, ok := grouped[st.String()]
		if !ok || len(entries) == 0 {
			continue
		}
		b.WriteString(categoryStyle.Render(fmt.Sprintf("## %s (%d)", st.String(), len(entries))))
		b.WriteString("\n")

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.URL, e.Status})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("URL", "Status").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 1 {
					return statusStyle(st)
				}
				return urlStyle
			}).
			Rows(rows...)
		b.WriteString(t.Render())
		b.WriteString("\n\n")
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf(
		"Checked %d URLs in %s",
		s.Checked,
		s.Duration.Round(1_000_000),
	)))
	b.WriteString("\n")

	return b.String()
}
