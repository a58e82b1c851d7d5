// Package tui renders the migrations dashboard in the terminal.
package tui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mouradhm/migrations-dashboard/pkg/dashboard"
	"github.com/mouradhm/migrations-dashboard/pkg/logger"
	"github.com/mouradhm/migrations-dashboard/pkg/models"
	"github.com/mouradhm/migrations-dashboard/pkg/table"
)

// SnapshotMsg delivers a new store snapshot to the program
type SnapshotMsg dashboard.Snapshot

// Refresher triggers an out-of-cycle fetch
type Refresher interface {
	Tick() bool
}

// Model is the Bubble Tea model of the dashboard
type Model struct {
	store     *dashboard.Store
	refresher Refresher
	logger    logger.Logger
	copyText  func(string) error

	snapshot dashboard.Snapshot
	table    *table.Table
	cursor   int
	rng      models.Range

	filter    textinput.Model
	filtering bool

	keys    keyMap
	help    help.Model
	message string
	width   int
}

// NewModel creates a model reading from store. refresher may be nil.
func NewModel(store *dashboard.Store, refresher Refresher, log logger.Logger) *Model {
	fi := textinput.New()
	fi.Placeholder = "filter migrations"
	fi.Prompt = "/ "
	fi.PromptStyle = lipgloss.NewStyle().Foreground(table.ColorCyan)
	fi.TextStyle = lipgloss.NewStyle().Foreground(table.ColorForeground)
	fi.PlaceholderStyle = lipgloss.NewStyle().Foreground(table.ColorComment)

	return &Model{
		store:     store,
		refresher: refresher,
		logger:    log,
		copyText:  clipboard.WriteAll,
		snapshot:  store.Snapshot(),
		table:     table.New(),
		rng:       models.DefaultRange,
		filter:    fi,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
}

// Init loads the current snapshot
func (m *Model) Init() tea.Cmd {
	store := m.store

	return func() tea.Msg {
		return SnapshotMsg(store.Snapshot())
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.applySnapshot(dashboard.Snapshot(msg))
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}

		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) applySnapshot(snap dashboard.Snapshot) {
	// snapshots can arrive out of order only if Init races the first publish
	if snap.Version < m.snapshot.Version {
		return
	}

	m.snapshot = snap
	m.table.SetRows(snap.Rows)
	m.clampCursor()
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // Default case handles all unlisted keys
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()

		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.table.SetFilter("")
		m.cursor = 0

		return m, nil
	}

	var cmd tea.Cmd

	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != m.table.Filter() {
		m.table.SetFilter(m.filter.Value())
		m.cursor = 0
	}

	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.PrevPage):
		m.table.PrevPage()
		m.cursor = 0
	case key.Matches(msg, m.keys.NextPage):
		m.table.NextPage()
		m.cursor = 0
	case key.Matches(msg, m.keys.Sort):
		m.toggleSort(msg.String())
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
	case key.Matches(msg, m.keys.Range):
		m.cycleRange()
	case key.Matches(msg, m.keys.Copy):
		m.copyErrors()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) toggleSort(pressed string) {
	idx := int(pressed[0] - '1')
	if idx < 0 || idx >= len(table.Columns) {
		return
	}

	m.table.ToggleSort(table.Columns[idx])
}

func (m *Model) refresh() {
	if m.refresher == nil {
		return
	}

	if m.refresher.Tick() {
		m.message = "Refreshing…"
	} else {
		m.message = "Refresh already in progress"
	}
}

// cycleRange changes the selected range. The range does not filter or refetch anything yet.
func (m *Model) cycleRange() {
	m.rng = m.rng.Next()
	m.logger.Info().Str("range", string(m.rng)).Msg("Range selected")
}

func (m *Model) copyErrors() {
	row, ok := m.selectedRow()
	if !ok || !row.HasErrors {
		m.message = "No errors to copy"
		return
	}

	if err := m.copyText(strings.Join(row.Errors, "\n")); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to copy errors to clipboard")
		m.message = "Failed to copy to clipboard"

		return
	}

	m.message = "Errors copied to clipboard!"
}

func (m *Model) selectedRow() (models.DisplayRow, bool) {
	page := m.table.Page()
	if m.cursor < 0 || m.cursor >= len(page) {
		return models.DisplayRow{}, false
	}

	return page[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.table.Page())
	if m.cursor >= n {
		m.cursor = n - 1
	}

	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Range returns the selected range
func (m *Model) Range() models.Range {
	return m.rng
}
