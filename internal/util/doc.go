// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the arsgpt application.
//
// This package contains common helper functions used throughout the
// application for string manipulation and file operations.
//
// # Key Functions
//
// String Utilities:
//   - SanitizeTitle: makes an LLM-synthesized title safe for use as a file name
//   - TruncateWidth: display-width aware truncation (CJK safe)
//   - CollapseNewlines: flattens text for one-line previews
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Turn a synthesized title into a storage-safe key segment
//	title := util.SanitizeTitle(raw)
//
//	// Truncate long strings safely for display
//	display := util.TruncateWidth(longText, 50)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
