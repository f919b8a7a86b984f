// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the arsgpt TUI.
//
// A Theme bundles every lipgloss style the chat view needs, built from
// an adaptive palette so both light and dark terminals render sensibly.
// Terminal capabilities are detected once with termenv at startup.
package styles
