// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the generation state machine for a single
// logical conversation.
//
// The Orchestrator owns all chat state. Workers perform provider calls
// off the control loop and post result events onto a single-consumer
// channel; the control loop feeds them back through HandleEvent, which
// is the only place state mutates. A sequence number ties each worker
// to the request that spawned it, so cancelled or superseded results
// are discarded instead of appended.
//
// # Key Types
//
//   - Orchestrator: the state machine (Submit, Cancel, Regenerate,
//     EditAndResubmit)
//   - State: Idle, AwaitingTitle, or Generating
//   - Attachment: a file payload folded into the next submission
//   - Event: title or generation result delivered to the control loop
//
// # Usage
//
//	orc := chat.NewOrchestrator(store, creds, client, cfg)
//	orc.Submit("Hello")
//	for ev := range orc.Events() {
//	    orc.HandleEvent(ev)
//	}
//
// New sessions go through a two-phase flow: a title synthesis request
// first, then the real generation. Title failure falls back to the
// default title and never blocks the conversation.
package chat
