// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/arsgpt-tui/internal/chat"
	"github.com/jeranaias/arsgpt-tui/internal/model"
	"github.com/jeranaias/arsgpt-tui/internal/storage"
	"github.com/jeranaias/arsgpt-tui/internal/ui/styles"
)

// sidebarWidth is the fixed width of the history panel.
const sidebarWidth = 34

// focusArea tracks which pane receives keystrokes.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	theme *styles.Theme
	keys  KeyMap

	// Collaborators. All chat state lives in the orchestrator.
	orc     *chat.Orchestrator
	store   *storage.SessionStore
	creds   *storage.CredentialStore
	search  *storage.HistorySearch
	watcher *storage.HistoryWatcher

	// Components
	viewport    viewport.Model
	input       textinput.Model
	searchInput textinput.Model
	spin        spinner.Model
	renderer    *glamour.TermRenderer

	// Layout
	width       int
	height      int
	ready       bool
	showSidebar bool
	focus       focusArea

	// Sidebar state
	results  []storage.SearchResult
	selected int

	// Input modes. attachMode repurposes the input line to collect a
	// file path; editIndex >= 0 means enter resubmits instead of
	// submitting fresh.
	attachMode bool
	editIndex  int

	status      string
	activeLabel string
}

// New creates the chat view. The watcher may be nil.
func New(orc *chat.Orchestrator, store *storage.SessionStore, creds *storage.CredentialStore, search *storage.HistorySearch, watcher *storage.HistoryWatcher) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask ARS-GPT"
	input.Prompt = "> "
	input.Focus()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search history"
	searchInput.Prompt = "/ "

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Spinner),
	)

	m := Model{
		theme:       theme,
		keys:        DefaultKeyMap(),
		orc:         orc,
		store:       store,
		creds:       creds,
		search:      search,
		watcher:     watcher,
		input:       input,
		searchInput: searchInput,
		spin:        spin,
		showSidebar: true,
		editIndex:   -1,
	}
	m.refreshResults()
	m.refreshActiveLabel()
	return m
}

// Init starts the event pumps.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spin.Tick,
		waitForEvent(m.orc),
		waitForHistory(m.watcher),
	)
}

// refreshResults re-runs the sidebar search and clamps the selection.
func (m *Model) refreshResults() {
	m.results = m.search.Search(m.searchInput.Value())
	if m.selected >= len(m.results) {
		m.selected = len(m.results) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// refreshActiveLabel caches the active credential's label for the
// status bar.
func (m *Model) refreshActiveLabel() {
	cred, err := m.creds.Active()
	if err != nil || cred == nil {
		m.activeLabel = ""
		return
	}
	m.activeLabel = cred.Label
}

// lastAssistantText returns the newest assistant message's text, or "".
func (m *Model) lastAssistantText() string {
	sess := m.orc.Session()
	if sess == nil {
		return ""
	}
	idx := sess.LastIndex(model.SenderAI)
	if idx < 0 {
		return ""
	}
	return sess.Messages[idx].Text
}

// openSelected loads the highlighted session into the orchestrator.
func (m *Model) openSelected() {
	if m.selected >= len(m.results) {
		return
	}
	sess, err := m.store.Load(m.results[m.selected].ID)
	if err != nil {
		m.status = "failed to open chat: " + err.Error()
		return
	}
	if err := m.orc.SetSession(sess); err != nil {
		m.status = err.Error()
		return
	}
	m.focus = focusInput
	m.input.Focus()
	m.searchInput.Blur()
	m.renderTranscript()
}
