// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat sessions, messages, and session metadata.
//
// # Key Types
//
//   - Session: container for a chat with its ordered message history
//   - Message: single message with sender, display text, and outgoing prompt
//   - SessionMeta: lightweight listing record (id, title, creation time)
//   - Sender: message sender enumeration (user, ai)
//
// # Persisted form
//
// A session is stored as one JSON array of {"sender", "text"} objects; the
// session id doubles as the file name and embeds the creation timestamp and
// sanitized title:
//
//	20250114_093201_Trip Planning
//
// The Prompt field of a Message (the full text sent to the provider, which
// may include expanded attachment content) is deliberately not persisted:
// the on-disk record holds only what the user saw.
package model
