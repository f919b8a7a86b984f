// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/arsgpt-tui/internal/chat"
	"github.com/jeranaias/arsgpt-tui/internal/model"
	"github.com/jeranaias/arsgpt-tui/internal/util"
)

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderTranscript rebuilds the viewport content from the current
// session and scrolls to the newest message.
func (m *Model) renderTranscript() {
	if !m.ready {
		return
	}

	sess := m.orc.Session()
	if sess == nil || sess.Len() == 0 {
		m.viewport.SetContent(m.theme.InputHint.Render("How can I help you today?"))
		return
	}

	var b strings.Builder
	for _, msg := range sess.Messages {
		switch msg.Sender {
		case model.SenderUser:
			b.WriteString(m.theme.UserBubble.Render(msg.Text))
		default:
			b.WriteString(m.theme.AssistantLabel.Render("ARS-GPT"))
			b.WriteString("\n")
			if strings.HasPrefix(msg.Text, "Error: ") || msg.Text == "Generation stopped." {
				b.WriteString(m.theme.ErrorText.Render(msg.Text))
			} else {
				b.WriteString(m.renderMarkdown(msg.Text))
			}
		}
		b.WriteString("\n\n")
	}

	if m.orc.State() != chat.StateIdle {
		b.WriteString(m.spin.View())
		b.WriteString(m.theme.InputHint.Render(" thinking..."))
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// renderMarkdown renders assistant text through glamour, falling back
// to the raw text when rendering fails.
func (m *Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the whole chat screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderInput(),
		m.renderStatus(),
	)

	if m.showSidebar {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	}
	return main
}

// contentWidth is the width left for the transcript column.
func (m Model) contentWidth() int {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderInput draws the prompt line with an attachment badge when a
// file is staged.
func (m Model) renderInput() string {
	line := m.input.View()
	if att := m.orc.Attachment(); att != nil && !m.attachMode {
		line = m.theme.AttachBadge.Render("📎 "+att.Name) + " " + line
	}
	return m.theme.InputContainer.Width(m.contentWidth() - 2).Render(line)
}

// renderStatus draws the bottom status bar: generation state, active
// credential, transient note, and key hints.
func (m Model) renderStatus() string {
	var parts []string

	switch m.orc.State() {
	case chat.StateAwaitingTitle:
		parts = append(parts, m.spin.View()+m.theme.StatusState.Render("naming chat"))
	case chat.StateGenerating:
		parts = append(parts, m.spin.View()+m.theme.StatusState.Render("generating"))
	default:
		parts = append(parts, m.theme.StatusState.Render("ready"))
	}

	if m.activeLabel != "" {
		parts = append(parts, m.theme.StatusBar.Render(m.activeLabel))
	} else {
		parts = append(parts, m.theme.ErrorText.Render("no active API key"))
	}

	if m.status != "" {
		parts = append(parts, m.theme.StatusBar.Render(m.status))
	}

	hints := [][2]string{
		{"C-n", "new"}, {"C-b", "history"}, {"C-o", "attach"}, {"Esc", "stop"}, {"C-c", "quit"},
	}
	rendered := make([]string, 0, len(hints))
	for _, h := range hints {
		rendered = append(rendered, m.theme.ShortcutKey.Render(h[0])+" "+m.theme.ShortcutDesc.Render(h[1]))
	}
	parts = append(parts, strings.Join(rendered, " · "))

	bar := strings.Join(parts, "  ")
	return util.TruncateWidth(bar, m.contentWidth())
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar draws the history panel: search box then results,
// snippets under content matches.
func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("History"))
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		b.WriteString(m.theme.SidebarSnippet.Render("no chats"))
	}

	maxRows := m.height - 6
	for i, res := range m.results {
		if i >= maxRows {
			break
		}
		title := util.TruncateWidth(res.Title, sidebarWidth-4)
		if i == m.selected {
			b.WriteString(m.theme.SidebarSelected.Render(title))
		} else {
			b.WriteString(m.theme.SidebarItem.Render(title))
		}
		b.WriteString("\n")
		if res.Snippet != "" {
			b.WriteString(m.theme.SidebarSnippet.Render(util.TruncateWidth(res.Snippet, sidebarWidth-4)))
			b.WriteString("\n")
		}
	}

	return m.theme.Sidebar.
		Width(sidebarWidth - 1).
		Height(m.height - 1).
		Render(b.String())
}
