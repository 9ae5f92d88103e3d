package components

import (
	"strings"

	"jsonview/internal/tui/common"
	"jsonview/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DownloadGlyph marks the per-row download control.
const DownloadGlyph = "⤓"

// FileList renders the manifest rows. At most one row is active.
type FileList struct {
	rows   []common.Row
	err    string
	loaded bool
	cursor int
	offset int
	width  int
	height int
}

func NewFileList() *FileList {
	return &FileList{}
}

// SetRows replaces every row. The cursor returns to the top.
func (fl *FileList) SetRows(rows []common.Row) {
	fl.rows = rows
	fl.err = ""
	fl.loaded = true
	fl.cursor = 0
	fl.offset = 0
}

// SetError drops all rows and shows a single error line instead.
func (fl *FileList) SetError(reason string) {
	fl.rows = nil
	fl.err = reason
	fl.loaded = true
	fl.cursor = 0
	fl.offset = 0
}

// Err returns the manifest failure reason, if any.
func (fl *FileList) Err() string {
	return fl.err
}

func (fl *FileList) SetSize(width, height int) {
	fl.width = width
	fl.height = height
	fl.scroll()
}

func (fl *FileList) Rows() []common.Row {
	return fl.rows
}

func (fl *FileList) Len() int {
	return len(fl.rows)
}

// Row returns the row at i, or nil when i is out of range.
func (fl *FileList) Row(i int) *common.Row {
	if i < 0 || i >= len(fl.rows) {
		return nil
	}
	return &fl.rows[i]
}

// SetActive marks row i active and every other row inactive.
func (fl *FileList) SetActive(i int) {
	if i < 0 || i >= len(fl.rows) {
		return
	}
	for j := range fl.rows {
		fl.rows[j].Active = j == i
	}
}

// SetActiveByName activates the first row called name. It reports whether
// such a row exists; if not, nothing changes.
func (fl *FileList) SetActiveByName(name string) bool {
	for i, r := range fl.rows {
		if r.Name == name {
			fl.SetActive(i)
			return true
		}
	}
	return false
}

func (fl *FileList) ClearActive() {
	for i := range fl.rows {
		fl.rows[i].Active = false
	}
}

// Active returns the index of the active row or -1.
func (fl *FileList) Active() int {
	for i, r := range fl.rows {
		if r.Active {
			return i
		}
	}
	return -1
}

func (fl *FileList) Cursor() int {
	return fl.cursor
}

func (fl *FileList) SetCursor(pos int) {
	if pos >= 0 && pos < len(fl.rows) {
		fl.cursor = pos
		fl.scroll()
	}
}

func (fl *FileList) MoveCursor(delta int) {
	if len(fl.rows) == 0 {
		return
	}
	pos := fl.cursor + delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(fl.rows) {
		pos = len(fl.rows) - 1
	}
	fl.SetCursor(pos)
}

// PageSize is the number of rows visible at once.
func (fl *FileList) PageSize() int {
	if fl.height <= 0 {
		return len(fl.rows)
	}
	return fl.height
}

// HitTest maps a click at column x, line y (relative to the list's top-left
// content cell) to a row. download is true when the click landed on the
// row's download glyph.
func (fl *FileList) HitTest(x, y int) (index int, download bool, ok bool) {
	if y < 0 || x < 0 {
		return 0, false, false
	}
	i := fl.offset + y
	if i >= len(fl.rows) || y >= fl.PageSize() {
		return 0, false, false
	}
	return i, fl.width > 0 && x >= fl.width-2, true
}

func (fl *FileList) scroll() {
	page := fl.PageSize()
	if page <= 0 {
		return
	}
	if fl.cursor < fl.offset {
		fl.offset = fl.cursor
	}
	if fl.cursor >= fl.offset+page {
		fl.offset = fl.cursor - page + 1
	}
}

func (fl *FileList) View() string {
	if !fl.loaded {
		return styles.Theme.Empty.Render("Loading file list…")
	}
	if fl.err != "" {
		return styles.Theme.Error.Render("Error loading file list: " + fl.err)
	}
	if len(fl.rows) == 0 {
		return styles.Theme.Empty.Render("No files found")
	}

	end := fl.offset + fl.PageSize()
	if end > len(fl.rows) {
		end = len(fl.rows)
	}

	lines := make([]string, 0, end-fl.offset)
	for i := fl.offset; i < end; i++ {
		lines = append(lines, fl.renderRow(i))
	}
	return strings.Join(lines, "\n")
}

func (fl *FileList) renderRow(i int) string {
	row := fl.rows[i]

	prefix := "  "
	if i == fl.cursor {
		prefix = styles.Theme.Cursor.Render("> ")
	}

	name := row.Name
	if fl.width > 0 {
		// prefix and " ⤓" take four cells
		name = ansi.Truncate(name, max(fl.width-4, 1), "…")
	}

	style := styles.Theme.Row
	if row.Active {
		style = styles.Theme.Active
	}
	label := style.Render(name)

	gap := 1
	if fl.width > 0 {
		gap = fl.width - 2 - lipgloss.Width(prefix) - lipgloss.Width(label)
		if gap < 1 {
			gap = 1
		}
	}
	return prefix + label + strings.Repeat(" ", gap) + styles.Theme.Download.Render(DownloadGlyph)
}
