package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nsavage/needlecrawl/engine"
)

// engineEventMsg wraps one event pulled off the engine's event channel.
// ok is false once the channel has closed.
type engineEventMsg struct {
	event engine.Event
	ok    bool
}

// crawlStoppedMsg signals that a requested Stop has finished joining all
// worker goroutines, so the model can safely show the final summary.
type crawlStoppedMsg struct{}

// waitForEvent returns a tea.Cmd that reads one event from ch.
func waitForEvent(ch <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return engineEventMsg{event: ev, ok: ok}
	}
}
