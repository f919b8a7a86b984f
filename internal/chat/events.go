// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// Event is a worker result delivered back to the control loop. Seq ties
// the event to the request that spawned it; HandleEvent discards events
// whose sequence no longer matches.
type Event interface {
	sequence() uint64
}

// TitleEvent carries the result of a title synthesis request.
type TitleEvent struct {
	Seq   uint64
	Title string
	Err   error
}

func (e TitleEvent) sequence() uint64 { return e.Seq }

// GenerationEvent carries the result of a generation request.
type GenerationEvent struct {
	Seq  uint64
	Text string
	Err  error
}

func (e GenerationEvent) sequence() uint64 { return e.Seq }
