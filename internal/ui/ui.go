// package ui renders live migration progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/offify/offify/internal/tasks"
)

const maxRecentLines = 12

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

// progressMsg wraps a tasks.ProgressUpdate for the bubbletea event loop.
type progressMsg tasks.ProgressUpdate

// doneMsg signals that the migration finished.
type doneMsg struct{ err error }

// Model represents the migration progress TUI state.
type Model struct {
	updates  <-chan tasks.ProgressUpdate
	done     <-chan error
	spinner  spinner.Model
	bar      progress.Model
	title    string
	current  tasks.ProgressUpdate
	recent   []string
	finished bool
	err      error
}

// NewModel creates a progress model fed by the given channels. The updates
// channel carries per-step events; done delivers the final migration error.
func NewModel(title string, updates <-chan tasks.ProgressUpdate, done <-chan error) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		updates: updates,
		done:    done,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		title:   title,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

// waitForUpdate blocks on the next progress event or completion.
func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case update, ok := <-m.updates:
			if !ok {
				return doneMsg{err: <-m.done}
			}
			return progressMsg(update)
		case err := <-m.done:
			return doneMsg{err: err}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8

	case progressMsg:
		m.current = tasks.ProgressUpdate(msg)
		m.appendRecent(tasks.ProgressUpdate(msg))
		return m, m.waitForUpdate()

	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) appendRecent(update tasks.ProgressUpdate) {
	var line string
	switch update.Phase {
	case tasks.AddTrack:
		line = addedStyle.Render(update.Message)
	case tasks.SkipTrack:
		line = skippedStyle.Render(update.Message)
	default:
		line = messageStyle.Render(update.Message)
	}

	m.recent = append(m.recent, line)
	if len(m.recent) > maxRecentLines {
		m.recent = m.recent[len(m.recent)-maxRecentLines:]
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.finished {
		if m.err != nil {
			b.WriteString(fmt.Sprintf("Migration failed: %v\n", m.err))
		} else {
			b.WriteString(doneStyle.Render("Migration complete"))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(messageStyle.Render(m.current.Message))
	b.WriteString("\n")

	if m.current.Total > 0 && (m.current.Phase == tasks.MatchTracks || m.current.Phase == tasks.AddTrack || m.current.Phase == tasks.SkipTrack || m.current.Phase == tasks.BatchProgress) {
		b.WriteString(m.bar.ViewAs(float64(m.current.Step) / float64(m.current.Total)))
		b.WriteString("\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(m.recent, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(messageStyle.Render("q to quit"))
	b.WriteString("\n")

	return b.String()
}
