// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/arsgpt-tui/internal/chat"
	"github.com/jeranaias/arsgpt-tui/internal/model"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update processes one Bubble Tea message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case orchestratorEventMsg:
		m.orc.HandleEvent(msg.Event)
		// Title synthesis may have materialized a new session file
		m.refreshResults()
		m.renderTranscript()
		return m, waitForEvent(m.orc)

	case historyChangedMsg:
		m.refreshResults()
		return m, waitForHistory(m.watcher)

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// resize recomputes component dimensions and the markdown renderer.
func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	contentWidth := m.width
	if m.showSidebar {
		contentWidth -= sidebarWidth
	}
	if contentWidth < 20 {
		contentWidth = 20
	}
	vpHeight := m.height - 4 // input box and status bar
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = contentWidth - 6
	m.searchInput.Width = sidebarWidth - 6

	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(contentWidth-4),
	); err == nil {
		m.renderer = renderer
	}

	m.renderTranscript()
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.orc.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Stop):
		if m.attachMode {
			m.attachMode = false
			m.input.Reset()
			m.input.Placeholder = "Ask ARS-GPT"
			return m, nil
		}
		if m.editIndex >= 0 {
			m.editIndex = -1
			m.input.Reset()
			return m, nil
		}
		m.orc.Cancel()
		m.renderTranscript()
		return m, nil

	case key.Matches(msg, m.keys.Sidebar):
		m.showSidebar = !m.showSidebar
		if !m.showSidebar && m.focus == focusSidebar {
			m.setFocus(focusInput)
		}
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.FocusNext):
		if m.showSidebar {
			if m.focus == focusInput {
				m.setFocus(focusSidebar)
			} else {
				m.setFocus(focusInput)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		if err := m.orc.NewChat(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.editIndex = -1
		m.input.Reset()
		m.input.Placeholder = "Ask ARS-GPT"
		m.setFocus(focusInput)
		m.renderTranscript()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Attach):
		m.attachMode = true
		m.input.Reset()
		m.input.Placeholder = "Path to file"
		m.setFocus(focusInput)
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if text := m.lastAssistantText(); text != "" {
			return m, copyToClipboard(text)
		}
		return m, nil

	case key.Matches(msg, m.keys.Regenerate):
		sess := m.orc.Session()
		if sess == nil {
			return m, nil
		}
		if err := m.orc.Regenerate(sess.Len() - 1); err != nil {
			if !errors.Is(err, chat.ErrBusy) && !errors.Is(err, chat.ErrInvalidTarget) {
				m.status = err.Error()
			}
			return m, nil
		}
		m.renderTranscript()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		sess := m.orc.Session()
		if sess == nil || m.orc.State() != chat.StateIdle {
			return m, nil
		}
		idx := sess.LastIndex(model.SenderUser)
		if idx < 0 {
			return m, nil
		}
		m.editIndex = idx
		m.input.SetValue(sess.Messages[idx].Text)
		m.input.CursorEnd()
		m.setFocus(focusInput)
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

// handleInputKey feeds the prompt line.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		m.handleSubmit()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit routes enter by mode: attach-path entry, edit
// resubmission, or a fresh submission.
func (m *Model) handleSubmit() {
	value := m.input.Value()

	if m.attachMode {
		m.attachMode = false
		att, err := chat.LoadAttachment(strings.TrimSpace(value))
		m.input.Reset()
		if err != nil {
			m.status = err.Error()
			m.input.Placeholder = "Ask ARS-GPT"
			return
		}
		m.orc.SetAttachment(att)
		m.input.Placeholder = "Ask about " + att.Name + "..."
		return
	}

	var err error
	if m.editIndex >= 0 {
		err = m.orc.EditAndResubmit(m.editIndex, value)
		m.editIndex = -1
	} else {
		err = m.orc.Submit(value)
	}

	if err != nil {
		// Empty input and busy states are disabled affordances, not
		// errors worth announcing.
		if !errors.Is(err, chat.ErrBusy) && !errors.Is(err, chat.ErrEmptySubmission) {
			m.status = err.Error()
		}
		return
	}

	m.input.Reset()
	m.input.Placeholder = "Ask ARS-GPT"
	m.status = ""
	m.renderTranscript()
}

// handleSidebarKey drives history navigation and management.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.results)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		m.openSelected()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		m.removeSelected(func(id string) error { return m.store.Delete(id) })
		return m, nil

	case key.Matches(msg, m.keys.Archive):
		m.removeSelected(func(id string) error { return m.store.Archive(id) })
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.refreshResults()
	return m, cmd
}

// removeSelected applies a store action to the highlighted session and
// resets the current chat if it was the one affected.
func (m *Model) removeSelected(action func(id string) error) {
	if m.selected >= len(m.results) {
		return
	}
	id := m.results[m.selected].ID

	if err := action(id); err != nil {
		m.status = err.Error()
		return
	}
	if sess := m.orc.Session(); sess != nil && sess.ID == id {
		if err := m.orc.NewChat(); err == nil {
			m.renderTranscript()
		}
	}
	m.refreshResults()
}

// setFocus moves keyboard focus between the prompt and the sidebar.
func (m *Model) setFocus(focus focusArea) {
	m.focus = focus
	if focus == focusInput {
		m.input.Focus()
		m.searchInput.Blur()
	} else {
		m.input.Blur()
		m.searchInput.Focus()
	}
}
