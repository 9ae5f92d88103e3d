package views

import (
	"strings"

	"jsonview/internal/tui/common"
	"jsonview/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// MinListWidth is the narrowest the file list panel gets.
const MinListWidth = 24

// Layout holds the panel geometry for a terminal size. Inner sizes exclude
// the borders.
type Layout struct {
	Width  int
	Height int

	ListWidth       int
	ListInnerWidth  int
	ListInnerHeight int

	ContentWidth       int
	ContentInnerWidth  int
	ContentInnerHeight int

	// Screen cell of the first list row.
	ListTop  int
	ListLeft int
}

// NewLayout splits the screen into a title line, two bordered panels and
// two footer lines (status and key help).
func NewLayout(width, height int) Layout {
	l := Layout{Width: width, Height: height, ListTop: 2, ListLeft: 1}

	l.ListWidth = width * 35 / 100
	if l.ListWidth < MinListWidth {
		l.ListWidth = MinListWidth
	}
	if l.ListWidth > width {
		l.ListWidth = width
	}
	l.ContentWidth = width - l.ListWidth

	panelHeight := height - 3
	if panelHeight < 3 {
		panelHeight = 3
	}
	l.ListInnerWidth = max(l.ListWidth-2, 0)
	l.ListInnerHeight = panelHeight - 2
	l.ContentInnerWidth = max(l.ContentWidth-2, 0)
	// one line goes to the header
	l.ContentInnerHeight = max(panelHeight-3, 0)
	return l
}

// InList reports whether a screen cell falls inside the list rows, and
// returns it relative to the first row.
func (l Layout) InList(x, y int) (int, int, bool) {
	rx, ry := x-l.ListLeft, y-l.ListTop
	if rx < 0 || ry < 0 || rx >= l.ListInnerWidth || ry >= l.ListInnerHeight {
		return 0, 0, false
	}
	return rx, ry, true
}

// InContent reports whether a screen cell falls inside the content panel.
func (l Layout) InContent(x, y int) bool {
	return x >= l.ListWidth && x < l.Width && y >= 1 && y < l.Height-2
}

func RenderMainView(m common.ModelReader) string {
	l := NewLayout(m.Width(), m.Height())

	title := styles.Theme.Title.Render(m.Title())

	listPanel := styles.Theme.Panel
	contentPanel := styles.Theme.Panel
	if m.Focus() == common.FocusList {
		listPanel = styles.Theme.Focused
	} else {
		contentPanel = styles.Theme.Focused
	}

	list := listPanel.
		Width(l.ListInnerWidth).
		Height(l.ListInnerHeight).
		Render(m.ListView())

	var body string
	if m.ShowHelp() {
		body = m.FullHelpView()
	} else {
		body = m.HeaderView() + "\n" + m.ContentView()
	}
	content := contentPanel.
		Width(l.ContentInnerWidth).
		Height(l.ListInnerHeight).
		MaxHeight(l.ListInnerHeight + 2).
		Render(body)

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, content))
	sb.WriteString("\n")
	sb.WriteString(m.StatusView())
	sb.WriteString("\n")
	sb.WriteString(m.HelpView())
	return sb.String()
}
