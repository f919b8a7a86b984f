// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides file-backed persistence for arsgpt.
//
// Three stores live here, all built on the same atomic-replace discipline
// (internal/util.AtomicWriteFile): a mutation either lands completely or
// not at all, and a concurrent reader never sees a partial record.
//
//   - SessionStore: one pretty-printed JSON array per session under the
//     history directory, with an "archived" partition beneath it. The file
//     name is the session id (timestamp + sanitized title).
//   - CredentialStore: a single JSON object mapping provider labels to
//     {key, state} records; at most one record is ever "active".
//   - HistorySearch: query scanning over the persisted sessions, with
//     context snippets for content matches. Search is total: corrupt
//     records are skipped, never reported.
//
// The stores assume single-process access. They are not a database and do
// not try to be one; expected session sizes are hundreds of messages, so
// every save rewrites the whole record.
package storage
