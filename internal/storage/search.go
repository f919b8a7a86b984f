// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"strings"
	"unicode"

	"github.com/jeranaias/arsgpt-tui/internal/util"
)

// snippetContext is how many characters of context surround a content
// match on each side.
const snippetContext = 15

// =============================================================================
// HISTORY SEARCH
// =============================================================================

// SearchResult is one matching session. Snippet is non-empty only for
// content matches; title matches and browse-all listings carry no snippet.
// A non-empty snippet always starts and ends with "...".
type SearchResult struct {
	ID      string
	Title   string
	Snippet string
}

// HistorySearch scans persisted sessions for a query string.
type HistorySearch struct {
	store *SessionStore
}

// NewHistorySearch creates a search over the given session store.
func NewHistorySearch(store *SessionStore) *HistorySearch {
	return &HistorySearch{store: store}
}

// Search returns sessions matching the query, most recent first.
//
// The query is trimmed and lower-cased. An empty query is "browse all":
// every active session comes back with no snippet. Otherwise the session
// title is checked first (case-insensitive substring); only when the title
// does not match are the messages scanned, and the first content hit
// provides the snippet.
//
// Search is total over a partially corrupt store: a session whose backing
// record cannot be read or parsed is treated as a non-match and skipped.
func (h *HistorySearch) Search(query string) []SearchResult {
	metas, err := h.store.List(false)
	if err != nil {
		return nil
	}

	query = strings.ToLower(strings.TrimSpace(query))

	results := make([]SearchResult, 0, len(metas))
	for _, meta := range metas {
		if query == "" {
			results = append(results, SearchResult{ID: meta.ID, Title: meta.Title})
			continue
		}

		if strings.Contains(strings.ToLower(meta.Title), query) {
			results = append(results, SearchResult{ID: meta.ID, Title: meta.Title})
			continue
		}

		sess, err := h.store.Load(meta.ID)
		if err != nil {
			continue
		}
		for _, msg := range sess.Messages {
			if snip, ok := snippet(msg.Text, query); ok {
				results = append(results, SearchResult{ID: meta.ID, Title: meta.Title, Snippet: snip})
				break
			}
		}
	}
	return results
}

// =============================================================================
// SNIPPET EXTRACTION
// =============================================================================

// snippet finds the first case-insensitive occurrence of query in text and
// returns the surrounding context: snippetContext characters either side,
// clamped to the text bounds, newlines collapsed, wrapped in ellipses.
// Indices are rune-based so multi-byte text cannot be split mid-character.
func snippet(text, query string) (string, bool) {
	textRunes := []rune(text)
	queryRunes := []rune(query)
	if len(queryRunes) == 0 || len(queryRunes) > len(textRunes) {
		return "", false
	}

	idx := runeIndexFold(textRunes, queryRunes)
	if idx < 0 {
		return "", false
	}

	start := idx - snippetContext
	if start < 0 {
		start = 0
	}
	end := idx + len(queryRunes) + snippetContext
	if end > len(textRunes) {
		end = len(textRunes)
	}

	return "..." + util.CollapseNewlines(string(textRunes[start:end])) + "...", true
}

// runeIndexFold returns the rune index of the first occurrence of query in
// text, comparing lower-cased runes. query is expected to be lower-case
// already. Returns -1 when absent.
func runeIndexFold(text, query []rune) int {
	for i := 0; i+len(query) <= len(text); i++ {
		match := true
		for j, q := range query {
			if unicode.ToLower(text[i+j]) != q {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
