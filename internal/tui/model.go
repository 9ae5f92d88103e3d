package tui

import (
	"context"
	"fmt"

	"jsonview/internal/browser"
	"jsonview/internal/config"
	"jsonview/internal/document"
	"jsonview/internal/errors"
	"jsonview/internal/log"
	"jsonview/internal/tui/common"
	"jsonview/internal/tui/components"
	"jsonview/internal/tui/messages"
	"jsonview/internal/tui/views"
	"jsonview/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// Loader fetches the manifest and individual files.
type Loader interface {
	Manifest(ctx context.Context) ([]string, error)
	Document(ctx context.Context, name string) (*document.Document, error)
}

// State holds the current selection and content.
type State interface {
	browser.Selection
	Current() (*document.Document, bool)
	Commit(doc *document.Document)
}

// Saver saves files locally.
type Saver interface {
	Download(ctx context.Context, name string) (*browser.Saved, error)
	DownloadCurrent(ctx context.Context, s browser.Selection) (*browser.Saved, error)
}

type Model struct {
	cfg *config.Config
	ctx context.Context

	loader Loader
	state  State
	saver  Saver

	list    *components.FileList
	content *components.ContentView
	status  *components.StatusBar
	keys    types.KeyMap
	help    help.Model

	// generation counts selections; only the result of the newest one is
	// applied.
	generation uint64
	pending    string
	// row indexes of the pending and current files, so duplicate names
	// keep their own marker across reloads
	pendingRow int
	currentRow int

	focus    common.Focus
	showHelp bool
	fullHelp string
	width    int
	height   int
}

// New creates the browser model. ctx bounds every fetch the model starts.
func New(ctx context.Context, cfg *config.Config, loader Loader, state State, saver Saver) *Model {
	if cfg == nil {
		cfg = config.New()
	}
	m := &Model{
		cfg:     cfg,
		ctx:     ctx,
		loader:  loader,
		state:   state,
		saver:   saver,
		list:    components.NewFileList(),
		content: components.NewContentView(cfg.Viewer.Highlight, cfg.Viewer.Style),
		status:  components.NewStatusBar(),
		keys:    types.DefaultKeyMap(),
		help:    help.New(),
		focus:   common.FocusList,
	}
	m.resize(80, 24)
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadManifest(), m.status.Tick)
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m, m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case messages.ManifestLoadedMsg:
		m.handleManifest(msg)
		return m, nil

	case messages.DocumentLoadedMsg:
		m.handleDocument(msg)
		return m, nil

	case messages.DownloadCompleteMsg:
		m.handleDownload(msg)
		return m, nil

	case spinner.TickMsg:
		return m, m.status.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
		return nil
	case m.showHelp:
		// any other key closes the help screen
		m.showHelp = false
		return nil
	case key.Matches(msg, m.keys.Focus):
		if m.focus == common.FocusList {
			m.focus = common.FocusContent
		} else {
			m.focus = common.FocusList
		}
		return nil
	case key.Matches(msg, m.keys.Reload):
		return m.loadManifest()
	case key.Matches(msg, m.keys.DownloadCurrent):
		return m.downloadCurrent()
	}

	if m.focus == common.FocusContent {
		m.handleContentKeys(msg)
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.list.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.list.MoveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.list.MoveCursor(-m.list.PageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.list.MoveCursor(m.list.PageSize())
	case key.Matches(msg, m.keys.GotoTop):
		m.list.SetCursor(0)
	case key.Matches(msg, m.keys.GotoBottom):
		m.list.SetCursor(m.list.Len() - 1)
	case key.Matches(msg, m.keys.Select):
		if row := m.list.Row(m.list.Cursor()); row != nil && row.OnSelect != nil {
			return row.OnSelect()
		}
	case key.Matches(msg, m.keys.Download):
		if row := m.list.Row(m.list.Cursor()); row != nil && row.OnDownload != nil {
			return row.OnDownload()
		}
	}
	return nil
}

func (m *Model) handleContentKeys(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.content.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.content.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.content.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.content.PageDown()
	case key.Matches(msg, m.keys.GotoTop):
		m.content.GotoTop()
	case key.Matches(msg, m.keys.GotoBottom):
		m.content.GotoBottom()
	}
}

func (m *Model) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	l := views.NewLayout(m.width, m.height)

	switch msg.Button {
	case tea.MouseButtonLeft:
		x, y, ok := l.InList(msg.X, msg.Y)
		if !ok {
			if l.InContent(msg.X, msg.Y) {
				m.focus = common.FocusContent
			}
			return nil
		}
		i, download, ok := m.list.HitTest(x, y)
		if !ok {
			return nil
		}
		m.focus = common.FocusList
		m.list.SetCursor(i)
		row := m.list.Row(i)
		if download {
			return row.OnDownload()
		}
		return row.OnSelect()

	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		delta := 1
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -1
		}
		if _, _, ok := l.InList(msg.X, msg.Y); ok {
			m.list.MoveCursor(delta)
		} else if delta < 0 {
			m.content.ScrollUp(3)
		} else {
			m.content.ScrollDown(3)
		}
	}
	return nil
}

// loadManifest fetches the file list.
func (m *Model) loadManifest() tea.Cmd {
	m.status.SetLoading(true)
	m.status.SetText("Loading file list…")

	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		names, err := loader.Manifest(ctx)
		return messages.ManifestLoadedMsg{Names: names, Err: err}
	}
}

func (m *Model) handleManifest(msg messages.ManifestLoadedMsg) {
	m.status.SetLoading(false)

	if msg.Err != nil {
		log.LogWithError(msg.Err).Error("Failed to load file list")
		m.list.SetError(reason(msg.Err))
		m.status.SetErrorText("File list unavailable")
		return
	}

	rows := make([]common.Row, len(msg.Names))
	for i, name := range msg.Names {
		i, name := i, name
		rows[i] = common.Row{
			Name:       name,
			OnSelect:   func() tea.Cmd { return m.selectRow(i, name) },
			OnDownload: func() tea.Cmd { return m.download(name) },
		}
	}
	m.list.SetRows(rows)

	// after a reload keep the marker on the file being viewed
	if m.pending != "" {
		m.restoreActive(m.pendingRow, m.pending)
	} else if cur := m.state.CurrentName(); cur != "" {
		m.restoreActive(m.currentRow, cur)
	}

	log.LogWithFields(log.F("count", len(rows))).Debug("File list loaded")
	m.status.SetText(fmt.Sprintf("%d files", len(rows)))
}

// selectRow marks row i active at once and starts fetching name. Any
// earlier fetch still in flight is superseded.
func (m *Model) selectRow(i int, name string) tea.Cmd {
	m.list.SetActive(i)
	m.generation++
	m.pending = name
	m.pendingRow = i
	m.status.SetLoading(true)
	m.status.SetText("Loading " + name + "…")

	gen := m.generation
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		doc, err := loader.Document(ctx, name)
		return messages.DocumentLoadedMsg{Name: name, Generation: gen, Doc: doc, Err: err}
	}
}

func (m *Model) handleDocument(msg messages.DocumentLoadedMsg) {
	m.status.SetLoading(false)

	if msg.Generation != m.generation {
		log.LogWithFields(
			log.F("file", msg.Name),
			log.F("generation", msg.Generation),
			log.F("latest", m.generation),
		).Debug("Dropping stale file result")
		return
	}
	m.pending = ""

	if msg.Err != nil {
		var le *errors.LoadError
		if !errors.As(msg.Err, &le) {
			le = errors.NewFileLoadError(msg.Name, msg.Err)
		}
		log.LogWithError(le).Error("Failed to load file")
		m.content.SetError(le)
		m.status.SetErrorText("Failed to load " + msg.Name)

		if m.cfg.Viewer.RevertActiveOnError {
			if cur := m.state.CurrentName(); cur == "" || !m.restoreActive(m.currentRow, cur) {
				m.list.ClearActive()
			}
		}
		return
	}

	m.currentRow = m.pendingRow
	m.state.Commit(msg.Doc)
	m.content.SetDocument(msg.Doc)
	m.status.SetSuccess(fmt.Sprintf("Loaded %s (%s)", msg.Doc.Name, humanize.Bytes(uint64(msg.Doc.Size))))
}

// restoreActive marks row i active if it still holds name, else the first
// row called name.
func (m *Model) restoreActive(i int, name string) bool {
	if row := m.list.Row(i); row != nil && row.Name == name {
		m.list.SetActive(i)
		return true
	}
	return m.list.SetActiveByName(name)
}

// download saves name.
func (m *Model) download(name string) tea.Cmd {
	m.status.SetLoading(true)
	m.status.SetText("Downloading " + name + "…")

	ctx, saver := m.ctx, m.saver
	return func() tea.Msg {
		saved, err := saver.Download(ctx, name)
		return messages.DownloadCompleteMsg{Name: name, Saved: saved, Err: err}
	}
}

// downloadCurrent saves the file being viewed. Nothing happens when no
// file has loaded yet.
func (m *Model) downloadCurrent() tea.Cmd {
	name := m.state.CurrentName()
	if name == "" {
		log.Debug("Download requested with no file selected")
		return nil
	}

	m.status.SetLoading(true)
	m.status.SetText("Downloading " + name + "…")

	ctx, saver, state := m.ctx, m.saver, m.state
	return func() tea.Msg {
		saved, err := saver.DownloadCurrent(ctx, state)
		return messages.DownloadCompleteMsg{Name: name, Saved: saved, Err: err}
	}
}

func (m *Model) handleDownload(msg messages.DownloadCompleteMsg) {
	m.status.SetLoading(false)

	switch {
	case msg.Err != nil:
		log.LogWithError(msg.Err).Error("Download failed")
		m.status.SetErrorText("Download failed: " + reason(msg.Err))
	case msg.Saved == nil:
	case msg.Saved.Skipped:
		m.status.SetText(fmt.Sprintf("Skipped %s, %s exists", msg.Name, msg.Saved.Path))
	default:
		m.status.SetSuccess(fmt.Sprintf("Saved %s (%s)", msg.Saved.Path, humanize.Bytes(uint64(msg.Saved.Bytes))))
	}
}

func (m *Model) toggleHelp() {
	m.showHelp = !m.showHelp
	if !m.showHelp {
		return
	}

	style := "dark"
	if !m.cfg.Viewer.Highlight {
		style = "notty"
	}
	l := views.NewLayout(m.width, m.height)
	out, err := views.RenderHelp(m.keys, l.ContentInnerWidth, style)
	if err != nil {
		log.LogWithFields(log.F("style", style)).Warnf("cannot render help: %v", err)
		out = views.HelpMarkdown(m.keys)
	}
	m.fullHelp = out
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	l := views.NewLayout(width, height)
	m.list.SetSize(l.ListInnerWidth, l.ListInnerHeight)
	m.content.SetSize(l.ContentInnerWidth, l.ContentInnerHeight)
	m.help.Width = width
}

func reason(err error) string {
	var le *errors.LoadError
	if errors.As(err, &le) {
		return le.Reason()
	}
	return err.Error()
}

// Getters used by the views

func (m *Model) Title() string {
	return "jsonview · " + m.cfg.Source.BaseURL
}

func (m *Model) Width() int {
	return m.width
}

func (m *Model) Height() int {
	return m.height
}

func (m *Model) Focus() common.Focus {
	return m.focus
}

func (m *Model) ListView() string {
	return m.list.View()
}

func (m *Model) HeaderView() string {
	return m.content.Header()
}

func (m *Model) ContentView() string {
	return m.content.View()
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) HelpView() string {
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) FullHelpView() string {
	return m.fullHelp
}

// Rows returns the file list rows.
func (m *Model) Rows() []common.Row {
	return m.list.Rows()
}

// Content returns the content component.
func (m *Model) Content() *components.ContentView {
	return m.content
}

// Status returns the status line text.
func (m *Model) Status() string {
	return m.status.Text()
}

// Loading reports whether any fetch or download is in flight.
func (m *Model) Loading() bool {
	return m.status.Loading()
}

// ListError returns the manifest failure reason shown in the list.
func (m *Model) ListError() string {
	return m.list.Err()
}
