// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// UNICODE: Rune-aware helpers preserve multi-byte characters.
// These functions handle strings correctly regardless of character encoding,
// preventing mid-character truncation that would corrupt UTF-8 strings.

// SanitizeTitle makes a synthesized chat title safe for use as part of a
// session file name. Quotes are stripped, path separators and colons become
// dashes, and surrounding whitespace is removed. The result is NFC
// normalized so the same visible title always produces the same key.
func SanitizeTitle(title string) string {
	title = norm.NFC.String(strings.TrimSpace(title))

	replacer := strings.NewReplacer(
		`"`, "",
		`'`, "",
		"/", "-",
		`\`, "-",
		":", "-",
	)
	return strings.TrimSpace(replacer.Replace(title))
}

// CollapseNewlines replaces line breaks with single spaces.
// Used for one-line previews and search snippets.
func CollapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// TruncateWidth truncates a string to a maximum display width.
// Double-width characters (CJK) count as 2 columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// RuneLen returns the number of runes (characters) in a string.
// This is safer than len() for UTF-8 strings.
func RuneLen(s string) int {
	return len([]rune(s))
}
