// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jeranaias/arsgpt-tui/internal/util"
)

// =============================================================================
// CREDENTIAL TYPES
// =============================================================================

// CredentialState marks a registry entry as the active one or not.
// The wire values are part of the persisted registry format.
type CredentialState string

const (
	CredentialActive   CredentialState = "active"
	CredentialDisabled CredentialState = "disabled"
)

// Credential is one provider API key in the registry.
type Credential struct {
	// Label is the user-visible registry key, e.g. "Google key (2)".
	Label string
	Key   string
	State CredentialState
}

// IsActive reports whether this credential is the selected one.
func (c Credential) IsActive() bool {
	return c.State == CredentialActive
}

// Masked returns the key in display form: first six and last four
// characters with an ellipsis between, or stars for short keys.
func (c Credential) Masked() string {
	if util.RuneLen(c.Key) > 10 {
		runes := []rune(c.Key)
		return string(runes[:6]) + "..." + string(runes[len(runes)-4:])
	}
	return "******"
}

// credentialRecord is the on-disk form of a registry entry.
type credentialRecord struct {
	Key   string          `json:"key"`
	State CredentialState `json:"state"`
}

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// CredentialStore persists the provider credential registry as a single
// JSON object keyed by label. At most one entry is active at any time;
// SetActive enforces that atomically from the reader's perspective because
// the whole registry is rewritten in one atomic replace.
type CredentialStore struct {
	// Path is the registry file location.
	Path string
}

// NewCredentialStore creates a credential store backed by the given file.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{Path: path}
}

// List reads the registry. A missing file is an empty registry, not an
// error.
func (s *CredentialStore) List() (map[string]Credential, error) {
	records, err := s.read()
	if err != nil {
		return nil, err
	}

	creds := make(map[string]Credential, len(records))
	for label, rec := range records {
		creds[label] = Credential{Label: label, Key: rec.Key, State: rec.State}
	}
	return creds, nil
}

// Add registers a new API key for a provider kind (e.g. "Google") and
// returns the generated label. The key must be non-empty after trimming.
// Labels collide on repeated adds of the same kind; collisions get a
// " (2)", " (3)", ... suffix. The first credential ever added becomes
// active; later ones start disabled.
func (s *CredentialStore) Add(providerKind, apiKey string) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrInvalidKey
	}

	records, err := s.read()
	if err != nil {
		return "", err
	}

	base := providerKind + " key"
	label := base
	for n := 2; ; n++ {
		if _, taken := records[label]; !taken {
			break
		}
		label = fmt.Sprintf("%s (%d)", base, n)
	}

	state := CredentialDisabled
	if len(records) == 0 {
		state = CredentialActive
	}

	records[label] = credentialRecord{Key: apiKey, State: state}
	if err := s.write(records); err != nil {
		return "", err
	}
	return label, nil
}

// SetActive makes the labelled credential the active one and demotes every
// other entry. Readers never observe two active entries or zero: the
// registry file is replaced in a single atomic rename.
func (s *CredentialStore) SetActive(label string) error {
	records, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := records[label]; !ok {
		return ErrCredentialNotFound
	}

	for name, rec := range records {
		if name == label {
			rec.State = CredentialActive
		} else {
			rec.State = CredentialDisabled
		}
		records[name] = rec
	}
	return s.write(records)
}

// Active returns the active credential, or nil when none is configured.
func (s *CredentialStore) Active() (*Credential, error) {
	creds, err := s.List()
	if err != nil {
		return nil, err
	}

	// Deterministic order in the (invalid) case of multiple actives
	labels := make([]string, 0, len(creds))
	for label := range creds {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		if creds[label].IsActive() {
			c := creds[label]
			return &c, nil
		}
	}
	return nil, nil
}

// =============================================================================
// FILE ACCESS
// =============================================================================

func (s *CredentialStore) read() (map[string]credentialRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]credentialRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var records map[string]credentialRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	if records == nil {
		records = map[string]credentialRecord{}
	}
	return records, nil
}

func (s *CredentialStore) write(records map[string]credentialRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return util.AtomicWriteFile(s.Path, data, 0600)
}
