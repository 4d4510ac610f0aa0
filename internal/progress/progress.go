// Package progress shows a spinner with the latest log line while a
// long-running request finishes.
package progress

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shazow/wifimgr/internal/log"
	"github.com/shazow/wifimgr/internal/style"
	"github.com/shazow/wifimgr/wifi"
)

type doneMsg struct{ result wifi.Result }

// Model is a tea.Model that spins until the request reports its result.
type Model struct {
	spinner spinner.Model
	title   string
	status  string
	done    bool
	result  wifi.Result
}

// New creates a Model titled title.
func New(title string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(style.CurrentTheme.Primary)
	return Model{spinner: s, title: title}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case log.LogMsg:
		m.status = log.Format(slog.Record(msg))
		return m, nil
	case doneMsg:
		m.done = true
		m.result = msg.result
		return m, tea.Quit
	case tea.KeyMsg:
		// Requests always run to a result, so interrupting only says so.
		if msg.Type == tea.KeyCtrlC {
			m.status = "still finishing, please wait"
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.done {
		// The caller prints the result.
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", m.spinner.View(), style.Title(m.title))
	if m.status != "" {
		fmt.Fprintf(&b, " %s", style.Subtle(m.status))
	}
	return b.String()
}

// Result returns the reported result once the model is done.
func (m Model) Result() (wifi.Result, bool) {
	return m.result, m.done
}

// Run executes fn while rendering the spinner to out. Log records from the
// default logger are shown as the status line.
func Run(out io.Writer, in io.Reader, title string, fn func() wifi.Result) wifi.Result {
	p := tea.NewProgram(New(title), tea.WithOutput(out), tea.WithInput(in))
	log.SetOutput(p)
	defer log.SetOutput(nil)

	results := make(chan wifi.Result, 1)
	go func() {
		r := fn()
		results <- r
		p.Send(doneMsg{result: r})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(out, "progress display failed: %v\n", err)
	}
	return <-results
}
