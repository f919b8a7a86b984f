// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// =============================================================================
// ERRORS
// =============================================================================

// Sentinel errors for the stores.
// Use errors.Is(err, ErrSessionNotFound) etc. to check for them.
var (
	// ErrSessionNotFound is returned when a session id matches no record
	// in either the active or the archived partition.
	ErrSessionNotFound = &StoreError{Message: "session not found"}

	// ErrCredentialNotFound is returned when a provider label is absent
	// from the credential registry.
	ErrCredentialNotFound = &StoreError{Message: "credential not found"}

	// ErrInvalidKey is returned when an API key is empty after trimming.
	ErrInvalidKey = &StoreError{Message: "api key is empty"}
)

// StoreError represents a storage-related error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
