// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who authored a message. The wire values ("user", "ai")
// are part of the persisted session format and must not change.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a session.
//
// Text is what the transcript shows. Prompt is the full text actually sent
// to the provider for user messages; it differs from Text when an attachment
// was folded into the submission. Prompt is in-memory only: after a session
// is reloaded from disk, regeneration falls back to Text.
type Message struct {
	ID     string `json:"-"`
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	Prompt string `json:"-"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:     uuid.NewString(),
		Sender: sender,
		Text:   text,
	}
}

// NewUserMessage creates a user message. prompt is the full outgoing text;
// pass text itself when there is no attachment expansion.
func NewUserMessage(text, prompt string) Message {
	msg := NewMessage(SenderUser, text)
	msg.Prompt = prompt
	return msg
}

// NewAIMessage creates an assistant message.
func NewAIMessage(text string) Message {
	return NewMessage(SenderAI, text)
}

// OutgoingPrompt returns the text to send to the provider for this message:
// the stored full prompt when available, otherwise the display text.
func (m Message) OutgoingPrompt() string {
	if m.Prompt != "" {
		return m.Prompt
	}
	return m.Text
}
