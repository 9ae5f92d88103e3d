package components

import (
	"jsonview/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusKind picks the color of the status text.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

type StatusBar struct {
	text    string
	kind    StatusKind
	spinner spinner.Model
	loading int
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{spinner: s}
}

// SetLoading counts outstanding requests; the spinner shows while any are
// in flight.
func (s *StatusBar) SetLoading(loading bool) {
	if loading {
		s.loading++
	} else if s.loading > 0 {
		s.loading--
	}
}

func (s *StatusBar) Loading() bool {
	return s.loading > 0
}

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.kind = StatusInfo
}

func (s *StatusBar) SetSuccess(text string) {
	s.text = text
	s.kind = StatusSuccess
}

func (s *StatusBar) SetErrorText(text string) {
	s.text = text
	s.kind = StatusError
}

func (s *StatusBar) Text() string {
	return s.text
}

// Tick starts the spinner.
func (s *StatusBar) Tick() tea.Msg {
	return s.spinner.Tick()
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) style() lipgloss.Style {
	switch s.kind {
	case StatusSuccess:
		return styles.Theme.Success
	case StatusError:
		return styles.Theme.Error
	}
	return styles.Theme.Help
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.Loading() {
		return ""
	}

	if s.Loading() {
		return s.spinner.View() + " " + s.style().Render(s.text)
	}
	return s.style().Render(s.text)
}
