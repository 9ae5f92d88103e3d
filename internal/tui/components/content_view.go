package components

import (
	"jsonview/internal/document"
	"jsonview/internal/errors"
	"jsonview/internal/log"
	"jsonview/internal/tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ContentView shows the header and the formatted text of the current file,
// or an error panel when the last load failed.
type ContentView struct {
	viewport viewport.Model

	headerVisible bool
	name          string

	text    string
	failure *errors.LoadError

	highlight bool
	style     string
}

func NewContentView(highlight bool, style string) *ContentView {
	vp := viewport.New(0, 0)
	return &ContentView{
		viewport:  vp,
		highlight: highlight,
		style:     style,
	}
}

// SetSize sets the size of the text area below the header.
func (c *ContentView) SetSize(width, height int) {
	c.viewport.Width = width
	c.viewport.Height = height
	c.refresh()
}

// SetDocument shows doc and makes the header visible.
func (c *ContentView) SetDocument(doc *document.Document) {
	c.headerVisible = true
	c.name = doc.Name
	c.text = doc.Text
	c.failure = nil
	c.refresh()
	c.viewport.GotoTop()
}

// SetError replaces the content with an error panel. The header keeps
// whatever it showed before.
func (c *ContentView) SetError(err *errors.LoadError) {
	c.failure = err
	c.refresh()
	c.viewport.GotoTop()
}

func (c *ContentView) HeaderVisible() bool {
	return c.headerVisible
}

// HeaderName is the name shown in the header.
func (c *ContentView) HeaderName() string {
	return c.name
}

// Text returns the plain formatted text of the shown document.
func (c *ContentView) Text() string {
	return c.text
}

// Failure returns the load error on display, if any.
func (c *ContentView) Failure() *errors.LoadError {
	return c.failure
}

func (c *ContentView) refresh() {
	switch {
	case c.failure != nil:
		c.viewport.SetContent(c.errorPanel())
	case c.text == "":
		c.viewport.SetContent(styles.Theme.Empty.Render("Select a file to view its contents"))
	default:
		c.viewport.SetContent(c.body())
	}
}

func (c *ContentView) body() string {
	if !c.highlight {
		return c.text
	}
	out, err := document.Highlight(c.text, c.style)
	if err != nil {
		log.LogWithFields(log.F("style", c.style)).Debugf("highlight failed: %v", err)
		return c.text
	}
	return out
}

func (c *ContentView) errorPanel() string {
	width := c.viewport.Width - 2
	if width < 10 {
		width = 10
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(styles.Theme.Error.GetForeground()).
		Padding(0, 1).
		Width(width)

	title := styles.Theme.Error.Bold(true).Render("Error loading " + c.failure.Name())
	return panel.Render(title + "\n" + c.failure.Reason())
}

// Update scrolls the viewport.
func (c *ContentView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return cmd
}

func (c *ContentView) ScrollUp(n int) {
	c.viewport.LineUp(n)
}

func (c *ContentView) ScrollDown(n int) {
	c.viewport.LineDown(n)
}

func (c *ContentView) PageUp() {
	c.viewport.ViewUp()
}

func (c *ContentView) PageDown() {
	c.viewport.ViewDown()
}

// Offset is the first visible line.
func (c *ContentView) Offset() int {
	return c.viewport.YOffset
}

func (c *ContentView) GotoTop() {
	c.viewport.GotoTop()
}

func (c *ContentView) GotoBottom() {
	c.viewport.GotoBottom()
}

// Header renders the header line; empty until the first file loaded.
func (c *ContentView) Header() string {
	if !c.headerVisible {
		return ""
	}
	return styles.Theme.Header.Render(c.name)
}

func (c *ContentView) View() string {
	return c.viewport.View()
}
