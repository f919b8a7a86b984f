// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// IDTimeLayout is the timestamp prefix of a session id.
const IDTimeLayout = "20060102_150405"

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds a chat with its ordered message history.
//
// A Session starts life in memory with an empty ID; it only receives an ID
// (and a backing file) once a title has been synthesized for it. Messages
// are append-only from the model's point of view: edit and regenerate flows
// truncate the sequence and append fresh messages, they never mutate one in
// place.
type Session struct {
	ID        string    `json:"-"`
	Title     string    `json:"-"`
	CreatedAt time.Time `json:"-"`
	Archived  bool      `json:"-"`

	// Messages is the persisted payload: the session file is exactly this
	// slice serialized as a JSON array.
	Messages []Message `json:"-"`
}

// NewSession creates an unpersisted in-memory session.
func NewSession() *Session {
	return &Session{CreatedAt: time.Now()}
}

// FormatID builds a session id from a creation time and an already
// sanitized title: "20250114_093201_Trip Planning".
func FormatID(createdAt time.Time, title string) string {
	return createdAt.Format(IDTimeLayout) + "_" + title
}

// ParseID splits a session id into creation time and title. The title is
// everything after the second underscore; ids without a title part yield an
// empty title. A malformed timestamp prefix yields a zero time.
func ParseID(id string) (createdAt time.Time, title string) {
	parts := strings.SplitN(id, "_", 3)
	if len(parts) >= 2 {
		createdAt, _ = time.ParseInLocation(IDTimeLayout, parts[0]+"_"+parts[1], time.Local)
	}
	if len(parts) == 3 {
		title = parts[2]
	}
	return createdAt, title
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the session.
func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// Truncate drops all messages at or after cut. Out-of-range values are
// clamped; Truncate(0) empties the session.
func (s *Session) Truncate(cut int) {
	if cut < 0 {
		cut = 0
	}
	if cut >= len(s.Messages) {
		return
	}
	s.Messages = s.Messages[:cut]
}

// LastIndex returns the index of the most recent message from sender,
// or -1 if there is none.
func (s *Session) LastIndex(sender Sender) int {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Sender == sender {
			return i
		}
	}
	return -1
}

// PrecedingUserIndex returns the index of the nearest user message strictly
// before idx, or -1 if there is none.
func (s *Session) PrecedingUserIndex(idx int) int {
	if idx > len(s.Messages) {
		idx = len(s.Messages)
	}
	for i := idx - 1; i >= 0; i-- {
		if s.Messages[i].Sender == SenderUser {
			return i
		}
	}
	return -1
}

// Len returns the number of messages.
func (s *Session) Len() int {
	return len(s.Messages)
}

// Persisted reports whether the session has been materialized to storage.
func (s *Session) Persisted() bool {
	return s.ID != ""
}

// =============================================================================
// SESSION METADATA
// =============================================================================

// SessionMeta is a lightweight listing record for the sidebar and search.
type SessionMeta struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Archived  bool
}

// MetaFromID builds a SessionMeta from a session id alone.
func MetaFromID(id string, archived bool) SessionMeta {
	createdAt, title := ParseID(id)
	if title == "" {
		title = id
	}
	return SessionMeta{
		ID:        id,
		Title:     title,
		CreatedAt: createdAt,
		Archived:  archived,
	}
}
