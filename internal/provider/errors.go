// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a provider failure for presentation and retry
// decisions.
type ErrorKind string

const (
	// ErrKindNetwork covers transport failures: DNS, connect, timeout.
	ErrKindNetwork ErrorKind = "network"

	// ErrKindAuth covers rejected credentials (HTTP 401/403).
	ErrKindAuth ErrorKind = "auth"

	// ErrKindRateLimit covers HTTP 429.
	ErrKindRateLimit ErrorKind = "rate_limit"

	// ErrKindRejected covers other 4xx responses: bad model id,
	// oversized prompt, content policy.
	ErrKindRejected ErrorKind = "rejected"

	// ErrKindUnknown covers everything else, including 5xx that
	// survived retries.
	ErrKindUnknown ErrorKind = "unknown"
)

// Sentinel errors for common failures.
var (
	// ErrNotConfigured indicates no API key was supplied.
	ErrNotConfigured = errors.New("provider API key not configured")

	// ErrAuthFailed indicates authentication failed.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")
)

// Error is a classified provider failure.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider error [%s] (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("provider error [%s]: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error's kind, so callers can use
// errors.Is(err, ErrAuthFailed) without inspecting the struct.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.Kind == ErrKindAuth
	case ErrRateLimited:
		return e.Kind == ErrKindRateLimit
	}
	return false
}

// KindOf extracts the ErrorKind from any error chain. Non-provider
// errors report ErrKindUnknown.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrKindUnknown
}
