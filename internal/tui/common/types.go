package common

import tea "github.com/charmbracelet/bubbletea"

// Focus is the pane receiving navigation keys.
type Focus int

const (
	FocusList Focus = iota
	FocusContent
)

// Row is one manifest entry as shown in the file list. The callbacks are
// bound when the rows are built, so the list never needs to know what
// selecting or downloading does.
type Row struct {
	Name       string
	Active     bool
	OnSelect   func() tea.Cmd
	OnDownload func() tea.Cmd
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Title() string
	Width() int
	Height() int
	Focus() Focus
	ListView() string
	HeaderView() string
	ContentView() string
	StatusView() string
	HelpView() string
	ShowHelp() bool
	FullHelpView() string
}
