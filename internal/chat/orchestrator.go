// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jeranaias/arsgpt-tui/internal/model"
	"github.com/jeranaias/arsgpt-tui/internal/provider"
	"github.com/jeranaias/arsgpt-tui/internal/storage"
)

// titlePromptTemplate asks the provider for a session title from the
// first user message. The reply is sanitized before use.
const titlePromptTemplate = "Generate a very short, concise title (max 5 words) for a chat that starts with this message: '%s'. Return ONLY the title, no quotes."

// stoppedNotice is appended to the transcript when the user cancels a
// generation.
const stoppedNotice = "Generation stopped."

// Rejection errors. The presentation layer treats these as disabled
// affordances, not failures.
var (
	// ErrBusy rejects submissions while a request is in flight.
	ErrBusy = errors.New("a request is already in progress")

	// ErrEmptySubmission rejects a submission with no text and no
	// attachment.
	ErrEmptySubmission = errors.New("nothing to send")

	// ErrNoActiveCredential rejects submissions when no API key is
	// configured and active.
	ErrNoActiveCredential = errors.New("no active credential configured")

	// ErrInvalidTarget rejects regenerate/edit on a message that is not
	// the eligible one.
	ErrInvalidTarget = errors.New("message is not eligible for this action")
)

// =============================================================================
// STATE
// =============================================================================

// State is the orchestrator's position in the generation flow.
type State int

const (
	// StateIdle accepts new submissions.
	StateIdle State = iota

	// StateAwaitingTitle has a title synthesis request in flight for a
	// brand-new session.
	StateAwaitingTitle

	// StateGenerating has a content generation request in flight.
	StateGenerating
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingTitle:
		return "awaiting_title"
	case StateGenerating:
		return "generating"
	default:
		return "unknown"
	}
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Gateway is the provider capability the orchestrator depends on.
// *provider.Client satisfies it; tests use a fake.
type Gateway interface {
	Generate(ctx context.Context, family provider.Family, modelID, apiKey, prompt string) (string, error)
}

// Config holds orchestrator settings. Zero values take defaults.
type Config struct {
	// Timeout bounds every provider call, title synthesis included.
	Timeout time.Duration

	// Model ids per provider family.
	GeminiModel   string
	OpenAIModel   string
	DeepSeekModel string
}

// fill replaces zero values with defaults.
func (c Config) fill() Config {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-3-flash-preview"
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = "gpt-4o"
	}
	if c.DeepSeekModel == "" {
		c.DeepSeekModel = "deepseek-chat"
	}
	return c
}

// Orchestrator is the state machine governing one logical chat.
//
// All methods must be called from the control loop. Workers touch no
// orchestrator state; they post events onto the channel returned by
// Events, and the control loop feeds those back through HandleEvent.
type Orchestrator struct {
	store   *storage.SessionStore
	creds   *storage.CredentialStore
	gateway Gateway
	cfg     Config

	state         State
	session       *model.Session
	attachment    *Attachment
	pendingPrompt string

	// seq identifies the current in-flight request. Cancel and
	// supersede both bump it, so a stale worker's event no longer
	// matches and is dropped.
	seq      uint64
	cancelFn context.CancelFunc

	events chan Event
}

// NewOrchestrator creates an orchestrator in StateIdle with no session.
func NewOrchestrator(store *storage.SessionStore, creds *storage.CredentialStore, gateway Gateway, cfg Config) *Orchestrator {
	return &Orchestrator{
		store:   store,
		creds:   creds,
		gateway: gateway,
		cfg:     cfg.fill(),
		events:  make(chan Event, 16),
	}
}

// Events is the single-consumer channel carrying worker results back to
// the control loop.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// State returns the current generation state.
func (o *Orchestrator) State() State {
	return o.state
}

// Session returns the current session, which may be nil (no chat yet)
// or not yet persisted (awaiting title).
func (o *Orchestrator) Session() *model.Session {
	return o.session
}

// SetAttachment stages a file payload for the next submission.
func (o *Orchestrator) SetAttachment(att *Attachment) {
	o.attachment = att
}

// Attachment returns the staged attachment, or nil.
func (o *Orchestrator) Attachment() *Attachment {
	return o.attachment
}

// SetSession switches to an already-loaded session. Rejected while a
// request is in flight.
func (o *Orchestrator) SetSession(sess *model.Session) error {
	if o.state != StateIdle {
		return ErrBusy
	}
	o.session = sess
	o.pendingPrompt = ""
	return nil
}

// NewChat discards the current session reference so the next submission
// starts a fresh one. Rejected while a request is in flight.
func (o *Orchestrator) NewChat() error {
	return o.SetSession(nil)
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit accepts user input and starts the generation flow.
//
// With no current session, the flow is two-phase: a title synthesis
// request runs first (StateAwaitingTitle), the session is materialized
// under the synthesized title, then the real generation runs. With an
// existing session the user message is persisted immediately and
// generation starts (StateGenerating).
//
// A staged attachment is folded into the outgoing prompt and cleared,
// regardless of what happens downstream. The transcript shows a short
// marker instead of the full attachment content, so the message tracks
// display text and outgoing prompt separately.
func (o *Orchestrator) Submit(text string) error {
	if o.state != StateIdle {
		return ErrBusy
	}

	att := o.attachment
	o.attachment = nil

	text = strings.TrimSpace(text)
	if text == "" && att == nil {
		return ErrEmptySubmission
	}

	cred, err := o.activeCredential()
	if err != nil {
		return err
	}

	prompt, display := foldPrompt(att, text)
	msg := model.NewUserMessage(display, prompt)

	if o.session == nil || !o.session.Persisted() {
		if o.session == nil {
			o.session = model.NewSession()
		}
		o.session.Append(msg)
		o.pendingPrompt = prompt
		o.state = StateAwaitingTitle
		o.startTitle(cred, text)
		return nil
	}

	if err := o.store.Append(o.session, msg); err != nil {
		log.Printf("failed to persist user message: %v", err)
	}
	o.state = StateGenerating
	o.startGeneration(cred, prompt)
	return nil
}

// Cancel stops the current generation. Only meaningful while
// generating: the in-flight request is context-cancelled best-effort,
// and the sequence bump guarantees a late result is discarded rather
// than appended. A stop notice lands in the transcript.
func (o *Orchestrator) Cancel() {
	if o.state != StateGenerating {
		return
	}

	o.seq++
	if o.cancelFn != nil {
		o.cancelFn()
		o.cancelFn = nil
	}
	o.state = StateIdle
	o.appendAssistant(stoppedNotice)
}

// Regenerate replaces the most recent assistant answer. index must
// address the last message of the session and that message must be an
// assistant one. The answer and everything after it are dropped, and
// the nearest preceding user message is resubmitted unchanged (full
// outgoing prompt, attachment expansion included).
func (o *Orchestrator) Regenerate(index int) error {
	if o.state != StateIdle {
		return ErrBusy
	}
	if o.session == nil || index != o.session.Len()-1 || index < 0 {
		return ErrInvalidTarget
	}
	if o.session.Messages[index].Sender != model.SenderAI {
		return ErrInvalidTarget
	}

	userIdx := o.session.PrecedingUserIndex(index)
	if userIdx < 0 {
		return ErrInvalidTarget
	}
	prompt := o.session.Messages[userIdx].OutgoingPrompt()

	cred, err := o.activeCredential()
	if err != nil {
		return err
	}

	if err := o.store.TruncateFrom(o.session, index); err != nil {
		return err
	}
	o.state = StateGenerating
	o.startGeneration(cred, prompt)
	return nil
}

// EditAndResubmit rewrites the most recent user message. index must
// address the last user message; it and everything after it are
// dropped, then newText is submitted as usual.
func (o *Orchestrator) EditAndResubmit(index int, newText string) error {
	if o.state != StateIdle {
		return ErrBusy
	}
	if o.session == nil || index < 0 || index != o.session.LastIndex(model.SenderUser) {
		return ErrInvalidTarget
	}

	if err := o.store.TruncateFrom(o.session, index); err != nil {
		return err
	}
	return o.Submit(newText)
}

// =============================================================================
// EVENT HANDLING
// =============================================================================

// HandleEvent applies a worker result. Events whose sequence does not
// match the current request are stale (cancelled or superseded) and are
// dropped silently.
func (o *Orchestrator) HandleEvent(ev Event) {
	if ev.sequence() != o.seq {
		return
	}

	switch ev := ev.(type) {
	case TitleEvent:
		if o.state == StateAwaitingTitle {
			o.handleTitle(ev)
		}
	case GenerationEvent:
		if o.state == StateGenerating {
			o.handleGeneration(ev)
		}
	}
}

// handleTitle materializes the new session and starts the real
// generation. Title synthesis failure falls back to the default title;
// it never blocks the conversation.
func (o *Orchestrator) handleTitle(ev TitleEvent) {
	title := ev.Title
	if ev.Err != nil {
		title = ""
	}

	sess, err := o.store.Create(title, o.session.Messages)
	if err != nil {
		log.Printf("failed to create session: %v", err)
		o.session.Append(model.NewAIMessage(fmt.Sprintf("Error: %v", err)))
		o.pendingPrompt = ""
		o.state = StateIdle
		return
	}
	o.session = sess

	prompt := o.pendingPrompt
	o.pendingPrompt = ""

	cred, err := o.activeCredential()
	if err != nil {
		o.appendAssistant(fmt.Sprintf("Error: %v", err))
		o.state = StateIdle
		return
	}

	o.state = StateGenerating
	o.startGeneration(cred, prompt)
}

// handleGeneration lands the provider's answer, or a readable error
// notice, in the transcript. Errors become chat messages so the
// transcript stays complete.
func (o *Orchestrator) handleGeneration(ev GenerationEvent) {
	o.state = StateIdle
	if ev.Err != nil {
		o.appendAssistant(fmt.Sprintf("Error: %v", ev.Err))
		return
	}
	o.appendAssistant(ev.Text)
}

// appendAssistant appends an assistant message and persists it when the
// session has a backing record.
func (o *Orchestrator) appendAssistant(text string) {
	if o.session == nil {
		return
	}
	if !o.session.Persisted() {
		o.session.Append(model.NewAIMessage(text))
		return
	}
	if err := o.store.Append(o.session, model.NewAIMessage(text)); err != nil {
		log.Printf("failed to persist assistant message: %v", err)
	}
}

// =============================================================================
// WORKERS
// =============================================================================

// activeCredential resolves the active credential or a rejection error.
func (o *Orchestrator) activeCredential() (storage.Credential, error) {
	cred, err := o.creds.Active()
	if err != nil {
		return storage.Credential{}, err
	}
	if cred == nil {
		return storage.Credential{}, ErrNoActiveCredential
	}
	return *cred, nil
}

// modelFor maps a provider family to its configured model id.
func (o *Orchestrator) modelFor(family provider.Family) string {
	switch family {
	case provider.FamilyGemini:
		return o.cfg.GeminiModel
	case provider.FamilyDeepSeek:
		return o.cfg.DeepSeekModel
	default:
		return o.cfg.OpenAIModel
	}
}

// startTitle launches the title synthesis worker. firstMessage is the
// raw user text, not the attachment-expanded prompt.
func (o *Orchestrator) startTitle(cred storage.Credential, firstMessage string) {
	prompt := fmt.Sprintf(titlePromptTemplate, firstMessage)
	o.startWorker(cred, prompt, func(seq uint64, text string, err error) Event {
		return TitleEvent{Seq: seq, Title: text, Err: err}
	})
}

// startGeneration launches the content generation worker.
func (o *Orchestrator) startGeneration(cred storage.Credential, prompt string) {
	o.startWorker(cred, prompt, func(seq uint64, text string, err error) Event {
		return GenerationEvent{Seq: seq, Text: text, Err: err}
	})
}

// startWorker runs one provider call off the control loop and posts the
// wrapped result. The worker captures only locals, never orchestrator
// fields.
func (o *Orchestrator) startWorker(cred storage.Credential, prompt string, wrap func(uint64, string, error) Event) {
	o.seq++
	seq := o.seq

	family := provider.FamilyForLabel(cred.Label)
	modelID := o.modelFor(family)

	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.Timeout)
	o.cancelFn = cancel

	go func() {
		defer cancel()
		text, err := o.gateway.Generate(ctx, family, modelID, cred.Key, prompt)
		o.events <- wrap(seq, text, err)
	}()
}
