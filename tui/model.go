// Package tui provides the Bubble Tea terminal UI: an input form for the
// crawl parameters, a live view of per-URL status as the crawl runs, and a
// styled final summary. It is the presentation collaborator the engine's
// event contract is built for — it never reaches into the frontier or
// worker pool directly, only Start/Pause/Resume/Stop and the event channel.
package tui

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nsavage/needlecrawl/engine"
	"github.com/nsavage/needlecrawl/report"
	"github.com/nsavage/needlecrawl/urlutil"
)

type phase int

const (
	phaseForm phase = iota
	phaseRunning
	phaseDone
)

const (
	fieldSeed = iota
	fieldWorkers
	fieldNeedle
	fieldCap
	fieldCount
)

// liveRows caps how many recent URL statuses are shown while a crawl is
// running; the final summary shows every checked URL regardless.
const liveRows = 12

// Model is the Bubble Tea model for the crawl TUI.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	newCfg func() engine.Config

	eng    *engine.Engine
	events chan engine.Event

	phase   phase
	inputs  []textinput.Model
	focus   int
	formErr error

	spinner   spinner.Model
	paused    bool
	startedAt time.Time

	seedHost string
	order    []string
	statuses map[string]engine.UrlStatus
	checked  int
	diagnose string

	verdict  string
	matchURL string

	quitting bool
	width    int
}

// Prefill supplies initial values for the input form, e.g. from CLI flags.
// Empty fields fall back to the form's placeholders.
type Prefill struct {
	Seed    string
	Workers string
	Needle  string
	Cap     string
}

// NewModel creates a TUI model. newCfg is called once per Start cycle so
// each restart picks up the engine defaults (or caller overrides) fresh.
func NewModel(ctx context.Context, cancel context.CancelFunc, newCfg func() engine.Config, pre Prefill) Model {
	inputs := make([]textinput.Model, fieldCount)

	seed := textinput.New()
	seed.Placeholder = "https://example.com"
	seed.SetValue(pre.Seed)
	seed.Focus()
	seed.CharLimit = 2048
	seed.Width = 40
	inputs[fieldSeed] = seed

	workers := textinput.New()
	workers.Placeholder = "4"
	workers.SetValue(pre.Workers)
	workers.CharLimit = 4
	workers.Width = 10
	inputs[fieldWorkers] = workers

	needle := textinput.New()
	needle.Placeholder = "needle"
	needle.SetValue(pre.Needle)
	needle.CharLimit = 256
	needle.Width = 30
	inputs[fieldNeedle] = needle

	cap := textinput.New()
	cap.Placeholder = "500"
	cap.SetValue(pre.Cap)
	cap.CharLimit = 5
	cap.Width = 10
	inputs[fieldCap] = cap

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		ctx:      ctx,
		cancel:   cancel,
		newCfg:   newCfg,
		inputs:   inputs,
		spinner:  spin,
		statuses: make(map[string]engine.UrlStatus),
	}
}

// Init starts the form's cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case engineEventMsg:
		return m.handleEvent(msg)

	case crawlStoppedMsg:
		m.phase = phaseDone
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		if m.eng != nil {
			m.eng.Stop()
		}
		m.cancel()
		return m, tea.Quit
	}

	switch m.phase {
	case phaseForm:
		return m.updateForm(msg)
	case phaseRunning:
		return m.updateRunning(msg)
	case phaseDone:
		return m.updateDone(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	case "tab", "down":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % fieldCount
		m.inputs[m.focus].Focus()
		return m, nil
	case "shift+tab", "up":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus - 1 + fieldCount) % fieldCount
		m.inputs[m.focus].Focus()
		return m, nil
	case "enter":
		if m.focus != fieldCount-1 {
			m.inputs[m.focus].Blur()
			m.focus++
			m.inputs[m.focus].Focus()
			return m, nil
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	seed := strings.TrimSpace(m.inputs[fieldSeed].Value())
	needle := strings.TrimSpace(m.inputs[fieldNeedle].Value())
	workersStr := strings.TrimSpace(m.inputs[fieldWorkers].Value())
	capStr := strings.TrimSpace(m.inputs[fieldCap].Value())

	if seed == "" || needle == "" {
		m.formErr = fmt.Errorf("seed URL and needle are required")
		return m, nil
	}
	workers := 4
	if workersStr != "" {
		n, err := strconv.Atoi(workersStr)
		if err != nil || n < 1 {
			m.formErr = fmt.Errorf("workers must be a positive integer")
			return m, nil
		}
		workers = n
	}
	cap := 500
	if capStr != "" {
		n, err := strconv.Atoi(capStr)
		if err != nil || n < 1 {
			m.formErr = fmt.Errorf("cap must be a positive integer")
			return m, nil
		}
		cap = n
	}

	m.formErr = nil
	m.seedHost = ""
	if parsed, err := url.Parse(seed); err == nil {
		m.seedHost = parsed.Hostname()
	}
	m.events = make(chan engine.Event, 64)
	m.eng = engine.New(m.newCfg(), m.events)
	if err := m.eng.Start(m.ctx, seed, workers, needle, cap); err != nil {
		m.formErr = fmt.Errorf("start crawl: %w", err)
		return m, nil
	}

	m.phase = phaseRunning
	m.paused = false
	m.startedAt = time.Now()
	m.order = nil
	m.statuses = make(map[string]engine.UrlStatus)
	m.checked = 0
	m.diagnose = ""

	return m, tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m Model) updateRunning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "s":
		return m, func() tea.Msg {
			m.eng.Stop()
			return crawlStoppedMsg{}
		}
	case "p":
		if m.paused {
			m.eng.Resume()
		} else {
			m.eng.Pause()
		}
		m.paused = !m.paused
		return m, nil
	}
	return m, nil
}

func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "enter":
		m.quitting = true
		return m, tea.Quit
	case "r":
		m.phase = phaseForm
		m.eng = nil
		m.verdict = ""
		m.matchURL = ""
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleEvent(msg engineEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		return m, nil
	}
	ev := msg.event

	switch {
	case ev.UrlStatus != nil:
		us := ev.UrlStatus
		if _, seen := m.statuses[us.URL]; !seen {
			m.order = append(m.order, us.URL)
		}
		m.statuses[us.URL] = us.Status
		if us.Status.Terminal() {
			m.checked++
		}

	case ev.SearchResult != nil:
		m.verdict = ev.SearchResult.Result.String()
		if m.verdict == "Found" {
			for _, u := range m.order {
				if m.statuses[u] == engine.Found {
					m.matchURL = u
					break
				}
			}
		}
		if eng := m.eng; eng != nil {
			stop := func() tea.Msg {
				eng.Stop()
				return crawlStoppedMsg{}
			}
			return m, tea.Batch(waitForEvent(m.events), stop)
		}

	case ev.Diagnostic != nil:
		m.diagnose = fmt.Sprintf("%s: %s", ev.Diagnostic.URL, ev.Diagnostic.Message)
	}

	return m, waitForEvent(m.events)
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseForm:
		return m.viewForm()
	case phaseRunning:
		return m.viewRunning()
	case phaseDone:
		return m.viewDone()
	}
	return ""
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("needlecrawl"))
	b.WriteString("\n\n")

	labels := []string{"Seed URL", "Workers", "Needle", "Cap"}
	for i, in := range m.inputs {
		label := labels[i]
		if i == m.focus {
			label = focusedStyle.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", label, in.View()))
	}

	if m.formErr != nil {
		b.WriteString(errorStyle.Render(m.formErr.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("tab/shift+tab: move  enter: next/submit  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	state := "Crawling"
	if m.paused {
		state = "Paused"
	}
	b.WriteString(fmt.Sprintf("%s %s... checked %d\n\n", m.spinner.View(), state, m.checked))

	start := 0
	if len(m.order) > liveRows {
		start = len(m.order) - liveRows
	}
	for _, u := range m.order[start:] {
		st := m.statuses[u]
		host := ""
		if m.seedHost != "" && !urlutil.SameSeedHost(u, m.seedHost) {
			host = dimStyle.Render(" [off-host]")
		}
		b.WriteString(statusStyle(st).Render(fmt.Sprintf("  [%s] %s", st, u)))
		b.WriteString(host)
		b.WriteString("\n")
	}

	if m.diagnose != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("note: " + m.diagnose))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("p: pause/resume  s: stop  ctrl+c: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewDone() string {
	summary := m.summary()
	var b strings.Builder
	b.WriteString(renderSummary(summary))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r: restart  enter/q: quit"))
	b.WriteString("\n")
	return b.String()
}

// Summary returns the finished crawl's report summary for output formatting.
func (m Model) Summary() report.Summary {
	return m.summary()
}

func (m Model) summary() report.Summary {
	s := report.Summary{Verdict: m.verdict, MatchURL: m.matchURL, Checked: m.checked}
	if !m.startedAt.IsZero() {
		s.Duration = time.Now().Sub(m.startedAt)
	}
	s.Entries = make([]report.Entry, 0, len(m.order))
	for _, u := range m.order {
		s.Entries = append(s.Entries, report.Entry{URL: u, Status: m.statuses[u].String()})
	}
	return s
}

// Quitting reports whether the user asked to exit.
func (m Model) Quitting() bool {
	return m.quitting
}
