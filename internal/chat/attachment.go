// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// Attachment is a file payload waiting to be folded into the next
// submission. It lives only between file selection and send; it is
// never persisted as its own entity.
type Attachment struct {
	Name    string
	Content string
}

// LoadAttachment reads a file into an Attachment. Text files are read
// verbatim; anything that is not valid UTF-8 is base64-encoded behind a
// descriptive wrapper line so the model knows what it is looking at.
func LoadAttachment(path string) (*Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	name := filepath.Base(path)
	if utf8.Valid(data) {
		return &Attachment{Name: name, Content: string(data)}, nil
	}
	return &Attachment{
		Name:    name,
		Content: fmt.Sprintf("Base64 Encoded Media (%s):\n%s", name, base64.StdEncoding.EncodeToString(data)),
	}, nil
}

// foldPrompt combines the pending attachment and raw text into the
// outgoing prompt and the transcript display text. The two differ when
// an attachment is present: the transcript shows a short marker, the
// provider sees the full content.
func foldPrompt(att *Attachment, text string) (prompt, display string) {
	if att == nil {
		return text, text
	}
	if text == "" {
		display = "📎 " + att.Name
	} else {
		display = "📎 " + att.Name + "\n" + text
	}
	prompt = fmt.Sprintf("Here is a file content (%s):\n\n%s\n\nUser: %s", att.Name, att.Content, text)
	return prompt, display
}
