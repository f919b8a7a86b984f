// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/arsgpt-tui/internal/chat"
	"github.com/jeranaias/arsgpt-tui/internal/storage"
)

// =============================================================================
// COMMANDS
// =============================================================================

// waitForEvent blocks on the orchestrator's event channel and delivers
// the next worker result. Re-armed from Update after every delivery so
// exactly one pump is outstanding.
func waitForEvent(orc *chat.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		return orchestratorEventMsg{Event: <-orc.Events()}
	}
}

// waitForHistory delivers the next coalesced history-directory change.
// A closed watcher ends the pump.
func waitForHistory(watcher *storage.HistoryWatcher) tea.Cmd {
	if watcher == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-watcher.Changes(); !ok {
			return nil
		}
		return historyChangedMsg{}
	}
}

// copyToClipboard writes text to the system clipboard and reports the
// outcome on the status line.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg("copy failed: " + err.Error())
		}
		return statusMsg("answer copied")
	}
}
