// Package ui provides the Bubble Tea interface for willdo.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/intake-toolkit/willdo/internal/actions"
	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/prefs"
	"github.com/intake-toolkit/willdo/internal/session"
	"github.com/intake-toolkit/willdo/internal/vcs"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDiff
	ViewHistory
	ViewRevision
)

// Options configures the UI.
type Options struct {
	Session    *session.Session
	Dispatcher *actions.Dispatcher
	ThemeName  string
	PrefsPath  string
	ShowClosed bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	sess       *session.Session
	dispatcher *actions.Dispatcher
	prefsPath  string

	// UI state
	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot    *intake.ListSnapshot
	lastUpdated time.Time
	errMessage  string

	// List state
	rows       []row
	cursor     int
	selected   map[int64]struct{}
	showClosed bool

	// Diff / history / revision state
	viewport      viewport.Model
	diffResults   []actions.DiffResult
	history       []vcs.Revision
	historyItem   intake.Item
	historyCursor int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		sess:       opts.Session,
		dispatcher: opts.Dispatcher,
		prefsPath:  prefsPath,
		theme:      GetTheme(themeName),
		keys:       DefaultKeyMap(),
		selected:   make(map[int64]struct{}),
		showClosed: opts.ShowClosed,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.contentHeight())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.contentHeight()
		}
		return m, nil

	case ListMsg:
		m.snapshot = msg.Snapshot
		m.lastUpdated = time.Now()
		m.errMessage = ""
		m.rebuildRows()
		return m, nil

	case MetadataMsg:
		// Classification depends on scanned metadata, so refresh badges.
		m.rebuildRows()
		return m, nil

	case ErrorMsg:
		m.errMessage = msg.Message
		return m, nil

	case diffMsg:
		m.diffResults = msg.results
		m.viewport.SetContent(m.renderDiffContent())
		m.viewport.GotoTop()
		m.currentView = ViewDiff
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.errMessage = msg.err.Error()
			return m, nil
		}
		m.history = msg.revisions
		m.historyItem = msg.item
		m.historyCursor = 0
		m.currentView = ViewHistory
		return m, nil

	case revisionMsg:
		if msg.err != nil {
			m.errMessage = msg.err.Error()
			return m, nil
		}
		m.viewport.SetContent(m.renderRevisionContent(msg.rev, msg.content))
		m.viewport.GotoTop()
		m.currentView = ViewRevision
		return m, nil

	case execDoneMsg:
		if msg.err != nil {
			m.errMessage = msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	switch m.currentView {
	case ViewDiff, ViewRevision:
		return m.renderPager()
	case ViewHistory:
		return m.renderHistory()
	default:
		return m.renderList()
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewList
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		return m.handleListKey(msg)
	case ViewHistory:
		return m.handleHistoryKey(msg)
	case ViewDiff, ViewRevision:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleListKey processes keyboard input for the list view.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor = stepItemRow(m.rows, m.cursor, 1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.cursor = stepItemRow(m.rows, m.cursor, -1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		if i := firstItemRow(m.rows); i >= 0 {
			m.cursor = i
		}
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		if i := lastItemRow(m.rows); i >= 0 {
			m.cursor = i
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if item, ok := m.cursorItem(); ok {
			if _, on := m.selected[item.ID]; on {
				delete(m.selected, item.ID)
			} else {
				m.selected[item.ID] = struct{}{}
			}
			m.cursor = stepItemRow(m.rows, m.cursor, 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.sess.Refresh()
		return m, nil

	case key.Matches(msg, m.keys.ShowClosed):
		m.showClosed = !m.showClosed
		m.rebuildRows()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Claim):
		m.dispatcher.ToggleClaim(m.actionItems())
		m.clearSelection()
		return m, nil

	case key.Matches(msg, m.keys.MarkSync):
		m.dispatcher.MarkSynchronized(m.actionItems())
		m.clearSelection()
		return m, nil

	case key.Matches(msg, m.keys.Merge):
		m.dispatcher.Merge(m.actionItems())
		m.clearSelection()
		return m, nil

	case key.Matches(msg, m.keys.Compare):
		m.dispatcher.Compare(m.actionItems())
		m.clearSelection()
		return m, nil

	case key.Matches(msg, m.keys.Diff):
		items := m.actionItems()
		m.clearSelection()
		return m, m.diffCmd(items)

	case key.Matches(msg, m.keys.History):
		if item, ok := m.cursorItem(); ok {
			return m, m.historyCmd(item)
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if item, ok := m.cursorItem(); ok {
			return m, tea.ExecProcess(m.dispatcher.OpenCmd(item), func(err error) tea.Msg {
				return execDoneMsg{err: err}
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenUp):
		if item, ok := m.cursorItem(); ok {
			// Without resolvable metadata there is no upstream file; the
			// action silently no-ops like the rest of the dispatcher.
			cmd := m.dispatcher.OpenUpstreamCmd(item)
			if cmd == nil {
				return m, nil
			}
			return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
				return execDoneMsg{err: err}
			})
		}
		return m, nil
	}

	return m, nil
}

// handleHistoryKey processes keyboard input for the history view.
func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.historyCursor < len(m.history)-1 {
			m.historyCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case key.Matches(msg, m.keys.Confirm):
		if m.historyCursor < len(m.history) {
			return m, m.revisionCmd(m.history[m.historyCursor], m.historyItem)
		}
	}
	return m, nil
}

// rebuildRows regenerates the display rows and keeps the cursor on the same
// item where possible.
func (m *Model) rebuildRows() {
	var currentID int64 = -1
	if item, ok := m.cursorItem(); ok {
		currentID = item.ID
	}
	m.rows = buildRows(m.snapshot, m.sess.Classify, m.showClosed)
	m.cursor = clampCursor(m.rows, m.cursor, currentID)
}

// cursorItem returns the item under the cursor, if any.
func (m Model) cursorItem() (intake.Item, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) && m.rows[m.cursor].kind == rowItem {
		return m.rows[m.cursor].item, true
	}
	return intake.Item{}, false
}

// actionItems returns the selected items in display order, falling back to
// the item under the cursor when the selection is empty.
func (m Model) actionItems() []intake.Item {
	if len(m.selected) == 0 {
		if item, ok := m.cursorItem(); ok {
			return []intake.Item{item}
		}
		return nil
	}
	var items []intake.Item
	for _, r := range m.rows {
		if r.kind != rowItem {
			continue
		}
		if _, on := m.selected[r.item.ID]; on {
			items = append(items, r.item)
		}
	}
	return items
}

func (m *Model) clearSelection() {
	m.selected = make(map[int64]struct{})
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ShowClosed: m.showClosed})
}

// contentHeight is the vertical space left for the main content after the
// header and footer lines.
func (m Model) contentHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// Commands

func (m Model) diffCmd(items []intake.Item) tea.Cmd {
	return func() tea.Msg {
		return diffMsg{results: m.dispatcher.Diff(items)}
	}
}

func (m Model) historyCmd(item intake.Item) tea.Cmd {
	return func() tea.Msg {
		revs, err := m.dispatcher.History(item)
		return historyMsg{item: item, revisions: revs, err: err}
	}
}

func (m Model) revisionCmd(rev vcs.Revision, item intake.Item) tea.Cmd {
	return func() tea.Msg {
		content, err := m.dispatcher.ShowRevision(rev, item)
		return revisionMsg{rev: rev, content: content, err: err}
	}
}
