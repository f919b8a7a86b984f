// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// HISTORY WATCHER TESTS
// =============================================================================

func TestHistoryWatcher_NotifiesOnSessionWrite(t *testing.T) {
	store := newTestStore(t)

	hw, err := WatchHistory(store.BaseDir)
	if err != nil {
		t.Fatalf("WatchHistory failed: %v", err)
	}
	defer hw.Close()

	if _, err := store.Create("Watched", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	select {
	case <-hw.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("No change notification after session write")
	}
}

func TestHistoryWatcher_IgnoresNonSessionFiles(t *testing.T) {
	store := newTestStore(t)

	hw, err := WatchHistory(store.BaseDir)
	if err != nil {
		t.Fatalf("WatchHistory failed: %v", err)
	}
	defer hw.Close()

	path := filepath.Join(store.BaseDir, "notes.txt")
	if err := os.WriteFile(path, []byte("not a session"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	select {
	case <-hw.Changes():
		t.Error("Got notification for non-session file")
	case <-time.After(200 * time.Millisecond):
	}
}
