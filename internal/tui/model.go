package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"imgopt/internal/report"
)

// Event is one progress update from a running batch. A start event
// carries Path/Index/Total; a finish event carries the Outcome.
type Event struct {
	Path    string
	Index   int
	Total   int
	Outcome *report.Outcome
}

// Model renders live batch progress. It consumes events until the channel
// closes, then quits. Ctrl+C and q request cancellation through the cancel
// hook; the view keeps running until the worker winds down and closes the
// event channel.
type Model struct {
	events     <-chan Event
	cancel     func()
	started    time.Time
	width      int
	total      int
	index      int
	current    string
	processed  int
	skipped    int
	saved      int64
	cancelling bool
	quitting   bool
}

type doneMsg struct{}

type eventMsg Event

func NewModel(events <-chan Event, cancel func()) Model {
	return Model{events: events, cancel: cancel, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if msg.Total > 0 {
			m.total = msg.Total
		}
		if msg.Path != "" {
			m.current = msg.Path
			m.index = msg.Index
		}
		if msg.Outcome != nil {
			if msg.Outcome.Changed {
				m.processed++
			} else {
				m.skipped++
			}
			m.saved += msg.Outcome.SavedBytes()
		}
		return m, listenForEvents(m.events)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil {
				m.cancel()
			}
			m.cancelling = true
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	done := m.processed + m.skipped
	ratio := 0.0
	if m.total > 0 {
		ratio = float64(done) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	bar := renderBar(barWidth, ratio)
	elapsed := time.Since(m.started).Round(time.Millisecond)

	title := "imgopt"
	if m.cancelling {
		title = "imgopt (cancelling, finishing current file)"
	}

	current := truncPath(m.current, 48)
	if m.index > 0 {
		current = fmt.Sprintf("#%d %s", m.index, current)
	}

	lines := []string{
		titleStyle.Render(title),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", done, m.total)) +
			dimStyle.Render(fmt.Sprintf("  skipped:%d", m.skipped)),
		labelStyle.Render("Current: " + current),
		savedStyle.Render("Saved: " + FormatBytes(m.saved)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(bar),
	}

	return strings.Join(lines, "\n")
}

func listenForEvents(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(event)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

// FormatBytes renders a byte count for humans.
func FormatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncPath(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	savedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
