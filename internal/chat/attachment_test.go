// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// ATTACHMENT TESTS
// =============================================================================

func TestLoadAttachment_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text content"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	att, err := LoadAttachment(path)
	if err != nil {
		t.Fatalf("LoadAttachment failed: %v", err)
	}
	if att.Name != "notes.txt" {
		t.Errorf("Name = %q, want notes.txt", att.Name)
	}
	if att.Content != "plain text content" {
		t.Errorf("Content = %q, want verbatim text", att.Content)
	}
}

func TestLoadAttachment_Binary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	// Invalid UTF-8 forces the base64 path
	if err := os.WriteFile(path, []byte{0x89, 0x50, 0x4e, 0x47, 0xff, 0xfe}, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	att, err := LoadAttachment(path)
	if err != nil {
		t.Fatalf("LoadAttachment failed: %v", err)
	}
	if !strings.HasPrefix(att.Content, "Base64 Encoded Media (image.png):\n") {
		t.Errorf("Content = %q, want base64 wrapper", att.Content)
	}
}

func TestLoadAttachment_Missing(t *testing.T) {
	if _, err := LoadAttachment(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("LoadAttachment succeeded on missing file")
	}
}

func TestFoldPrompt(t *testing.T) {
	att := &Attachment{Name: "data.csv", Content: "a,b\n1,2"}

	prompt, display := foldPrompt(att, "summarize this")
	wantPrompt := "Here is a file content (data.csv):\n\na,b\n1,2\n\nUser: summarize this"
	if prompt != wantPrompt {
		t.Errorf("prompt = %q, want %q", prompt, wantPrompt)
	}
	if display != "📎 data.csv\nsummarize this" {
		t.Errorf("display = %q", display)
	}
}

func TestFoldPrompt_EmptyText(t *testing.T) {
	att := &Attachment{Name: "data.csv", Content: "a,b"}

	_, display := foldPrompt(att, "")
	if display != "📎 data.csv" {
		t.Errorf("display = %q, want bare marker", display)
	}
}

func TestFoldPrompt_NoAttachment(t *testing.T) {
	prompt, display := foldPrompt(nil, "just text")
	if prompt != "just text" || display != "just text" {
		t.Errorf("foldPrompt(nil) = (%q, %q), want passthrough", prompt, display)
	}
}
