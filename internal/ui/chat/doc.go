// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the arsgpt TUI.
//
// The Bubble Tea model renders a transcript viewport, an input line,
// and a history sidebar with live search. All chat state lives in the
// orchestrator; the view reads it and forwards user intent. Worker
// results arrive as Bubble Tea messages pumped off the orchestrator's
// event channel, so every mutation happens on the update loop.
package chat
