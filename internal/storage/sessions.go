// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/arsgpt-tui/internal/model"
	"github.com/jeranaias/arsgpt-tui/internal/util"
)

// ArchiveDirName is the partition beneath the history directory that holds
// archived sessions. Archived sessions keep their full content but are
// excluded from the default listing.
const ArchiveDirName = "archived"

// fallbackTitle is used when title synthesis yields nothing usable.
const fallbackTitle = "New Chat"

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore persists chat sessions as one JSON file per session.
type SessionStore struct {
	// BaseDir is the active session directory. Archived sessions live in
	// BaseDir/archived.
	BaseDir string
}

// NewSessionStore creates a session store rooted at baseDir, creating both
// partitions if needed.
func NewSessionStore(baseDir string) (*SessionStore, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, ArchiveDirName), 0755); err != nil {
		return nil, err
	}
	return &SessionStore{BaseDir: baseDir}, nil
}

// filePath returns the file path for a session id in the given partition.
func (s *SessionStore) filePath(id string, archived bool) string {
	if archived {
		return filepath.Join(s.BaseDir, ArchiveDirName, id+".json")
	}
	return filepath.Join(s.BaseDir, id+".json")
}

// exists reports whether id has a record in either partition.
func (s *SessionStore) exists(id string) bool {
	if _, err := os.Stat(s.filePath(id, false)); err == nil {
		return true
	}
	if _, err := os.Stat(s.filePath(id, true)); err == nil {
		return true
	}
	return false
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns session metadata, most recent first. The id embeds a
// sortable timestamp prefix, so ordering by id descending is ordering by
// creation time descending. Archived sessions are excluded unless
// includeArchived is set.
func (s *SessionStore) List(includeArchived bool) ([]model.SessionMeta, error) {
	metas, err := s.listPartition(s.BaseDir, false)
	if err != nil {
		return nil, err
	}

	if includeArchived {
		archived, err := s.listPartition(filepath.Join(s.BaseDir, ArchiveDirName), true)
		if err != nil {
			return nil, err
		}
		metas = append(metas, archived...)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].ID > metas[j].ID
	})
	return metas, nil
}

// listPartition reads one directory of session files.
func (s *SessionStore) listPartition(dir string, archived bool) ([]model.SessionMeta, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var metas []model.SessionMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		metas = append(metas, model.MetaFromID(id, archived))
	}
	return metas, nil
}

// =============================================================================
// CREATE / SAVE
// =============================================================================

// Create materializes a new session with the given synthesized title and
// initial messages. The title is sanitized here so callers can pass raw
// provider output.
func (s *SessionStore) Create(title string, messages []model.Message) (*model.Session, error) {
	return s.CreateAt(time.Now(), title, messages)
}

// CreateAt is Create with an explicit creation time.
//
// Two sessions created within the same clock second with the same title
// would collide on id; the store resolves that by suffixing the title with
// "-2", "-3", ... until the id is free.
func (s *SessionStore) CreateAt(createdAt time.Time, title string, messages []model.Message) (*model.Session, error) {
	title = util.SanitizeTitle(title)
	if title == "" {
		title = fallbackTitle
	}

	unique := title
	for n := 2; s.exists(model.FormatID(createdAt, unique)); n++ {
		unique = fmt.Sprintf("%s-%d", title, n)
	}

	sess := &model.Session{
		ID:        model.FormatID(createdAt, unique),
		Title:     unique,
		CreatedAt: createdAt,
		Messages:  messages,
	}

	if err := s.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save rewrites the session's full message list.
//
// RELIABILITY: the whole array goes through an atomic replace, so a crash
// mid-save leaves the previous complete record in place.
func (s *SessionStore) Save(sess *model.Session) error {
	if sess.ID == "" {
		return &StoreError{Message: "cannot save session without id"}
	}

	data, err := json.MarshalIndent(sess.Messages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return util.AtomicWriteFile(s.filePath(sess.ID, sess.Archived), data, 0644)
}

// Append adds a message to the session and persists the result.
func (s *SessionStore) Append(sess *model.Session, msg model.Message) error {
	sess.Append(msg)
	return s.Save(sess)
}

// TruncateFrom drops all messages at or after cut and persists the
// shortened list. Used by the edit and regenerate flows.
func (s *SessionStore) TruncateFrom(sess *model.Session, cut int) error {
	sess.Truncate(cut)
	return s.Save(sess)
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a session by id, checking the active partition first and
// the archived partition second.
func (s *SessionStore) Load(id string) (*model.Session, error) {
	for _, archived := range []bool{false, true} {
		data, err := os.ReadFile(s.filePath(id, archived))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read session %s: %w", id, err)
		}

		var messages []model.Message
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
		}

		createdAt, title := model.ParseID(id)
		if title == "" {
			title = id
		}
		return &model.Session{
			ID:        id,
			Title:     title,
			CreatedAt: createdAt,
			Archived:  archived,
			Messages:  messages,
		}, nil
	}
	return nil, ErrSessionNotFound
}

// =============================================================================
// RENAME / ARCHIVE / DELETE
// =============================================================================

// Rename moves a session record to a new id. Returns false (not an error)
// when oldID has no active record, matching the "rename what you can see"
// semantics of the sidebar.
func (s *SessionStore) Rename(oldID, newID string) (bool, error) {
	oldPath := s.filePath(oldID, false)
	if _, err := os.Stat(oldPath); err != nil {
		return false, nil
	}
	if err := os.Rename(oldPath, s.filePath(newID, false)); err != nil {
		return false, fmt.Errorf("failed to rename session: %w", err)
	}
	return true, nil
}

// Archive moves a session from the active to the archived partition.
// A no-op if the session is absent or already archived.
func (s *SessionStore) Archive(id string) error {
	src := s.filePath(id, false)
	if _, err := os.Stat(src); err != nil {
		return nil
	}
	if err := os.Rename(src, s.filePath(id, true)); err != nil {
		return fmt.Errorf("failed to archive session: %w", err)
	}
	return nil
}

// Delete removes a session record from whichever partition holds it.
// A no-op if the session is absent.
func (s *SessionStore) Delete(id string) error {
	for _, archived := range []bool{false, true} {
		err := os.Remove(s.filePath(id, archived))
		if err == nil {
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}
	return nil
}
