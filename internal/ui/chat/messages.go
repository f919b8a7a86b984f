// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/arsgpt-tui/internal/chat"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// orchestratorEventMsg wraps a worker result pumped off the
// orchestrator's event channel.
type orchestratorEventMsg struct {
	Event chat.Event
}

// historyChangedMsg signals that session files changed on disk.
type historyChangedMsg struct{}

// statusMsg sets a transient status line note.
type statusMsg string
