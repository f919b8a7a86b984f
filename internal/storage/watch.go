// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// HISTORY WATCHER
// =============================================================================

// HistoryWatcher notifies listeners when session files change on disk,
// so the sidebar can refresh after an external edit, sync, or delete.
//
// Notifications are coalesced: the channel has capacity one and delivery
// is non-blocking, so a burst of file events becomes a single refresh.
type HistoryWatcher struct {
	watcher *fsnotify.Watcher
	changes chan struct{}
	cancel  context.CancelFunc
}

// WatchHistory starts watching both session partitions under baseDir.
func WatchHistory(baseDir string) (*HistoryWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{baseDir, filepath.Join(baseDir, ArchiveDirName)} {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	hw := &HistoryWatcher{
		watcher: watcher,
		changes: make(chan struct{}, 1),
		cancel:  cancel,
	}
	go hw.processEvents(ctx)
	return hw, nil
}

// Changes delivers one value per batch of file changes.
func (hw *HistoryWatcher) Changes() <-chan struct{} {
	return hw.changes
}

// Close stops watching and releases resources.
func (hw *HistoryWatcher) Close() error {
	hw.cancel()
	return hw.watcher.Close()
}

// processEvents filters raw fsnotify events down to session-file changes.
func (hw *HistoryWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-hw.watcher.Events:
			if !ok {
				return
			}
			// Temp files from atomic writes are noise; only completed
			// session records matter.
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".tmp-") {
				continue
			}
			select {
			case hw.changes <- struct{}{}:
			default:
			}

		case _, ok := <-hw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
