// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"testing"
	"time"

	"github.com/jeranaias/arsgpt-tui/internal/model"
)

// =============================================================================
// HISTORY SEARCH TESTS
// =============================================================================

func newTestSearch(t *testing.T) (*HistorySearch, *SessionStore) {
	t.Helper()
	store := newTestStore(t)
	return NewHistorySearch(store), store
}

func TestHistorySearch_BrowseAll(t *testing.T) {
	search, store := newTestSearch(t)

	if _, err := store.CreateAt(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), "First", nil); err != nil {
		t.Fatalf("CreateAt failed: %v", err)
	}
	if _, err := store.CreateAt(time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC), "Second", nil); err != nil {
		t.Fatalf("CreateAt failed: %v", err)
	}

	for _, query := range []string{"", "   "} {
		results := search.Search(query)
		if len(results) != 2 {
			t.Fatalf("Search(%q) count = %d, want 2", query, len(results))
		}
		if results[0].Title != "Second" || results[1].Title != "First" {
			t.Errorf("Search(%q) order = [%q, %q], want newest first", query, results[0].Title, results[1].Title)
		}
		for _, r := range results {
			if r.Snippet != "" {
				t.Errorf("Browse result %q carries snippet %q", r.Title, r.Snippet)
			}
		}
	}
}

func TestHistorySearch_TitleMatch(t *testing.T) {
	search, store := newTestSearch(t)

	if _, err := store.Create("Recipe Ideas", []model.Message{
		model.NewUserMessage("how do I make pasta", ""),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create("Unrelated", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	results := search.Search("RECIPE")
	if len(results) != 1 {
		t.Fatalf("Search count = %d, want 1", len(results))
	}
	if results[0].Title != "Recipe Ideas" {
		t.Errorf("Title = %q, want %q", results[0].Title, "Recipe Ideas")
	}
	// Title matches do not scan content, so no snippet
	if results[0].Snippet != "" {
		t.Errorf("Title match carries snippet %q", results[0].Snippet)
	}
}

func TestHistorySearch_ContentSnippet(t *testing.T) {
	search, store := newTestSearch(t)

	if _, err := store.Create("Pets", []model.Message{
		model.NewUserMessage("the quick brown fox jumps over the lazy dog", ""),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	results := search.Search("lazy")
	if len(results) != 1 {
		t.Fatalf("Search count = %d, want 1", len(results))
	}
	want := "...jumps over the lazy dog..."
	if results[0].Snippet != want {
		t.Errorf("Snippet = %q, want %q", results[0].Snippet, want)
	}
}

func TestHistorySearch_SnippetCollapsesNewlines(t *testing.T) {
	search, store := newTestSearch(t)

	if _, err := store.Create("Multiline", []model.Message{
		model.NewAIMessage("first line\nneedle here\nthird line"),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	results := search.Search("needle")
	if len(results) != 1 {
		t.Fatalf("Search count = %d, want 1", len(results))
	}
	want := "...first line needle here third lin..."
	if results[0].Snippet != want {
		t.Errorf("Snippet = %q, want %q", results[0].Snippet, want)
	}
}

func TestHistorySearch_NoMatch(t *testing.T) {
	search, store := newTestSearch(t)

	if _, err := store.Create("Chat", []model.Message{
		model.NewUserMessage("hello world", ""),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if results := search.Search("zebra"); len(results) != 0 {
		t.Errorf("Search count = %d, want 0", len(results))
	}
}

func TestHistorySearch_ExcludesArchived(t *testing.T) {
	search, store := newTestSearch(t)

	sess, err := store.Create("Archived Recipe", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Archive(sess.ID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	if results := search.Search("recipe"); len(results) != 0 {
		t.Errorf("Search found archived session: %+v", results)
	}
	if results := search.Search(""); len(results) != 0 {
		t.Errorf("Browse found archived session: %+v", results)
	}
}

func TestHistorySearch_SkipsCorruptSession(t *testing.T) {
	search, store := newTestSearch(t)

	good, err := store.Create("Good", []model.Message{
		model.NewUserMessage("a perfectly normal needle in a message", ""),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Plant a record that is not a valid message array
	bad := store.filePath("20250101_000000_Corrupt", false)
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	results := search.Search("needle")
	if len(results) != 1 {
		t.Fatalf("Search count = %d, want 1", len(results))
	}
	if results[0].ID != good.ID {
		t.Errorf("Result ID = %q, want %q", results[0].ID, good.ID)
	}
}
