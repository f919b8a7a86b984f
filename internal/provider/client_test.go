// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// =============================================================================
// FAMILY TESTS
// =============================================================================

func TestFamilyForLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Family
	}{
		{"Google key", FamilyGemini},
		{"Google key (2)", FamilyGemini},
		{"OpenAI key", FamilyGPT},
		{"DeepSeek key (3)", FamilyDeepSeek},
		{"Mystery key", FamilyGPT},
		{"", FamilyGPT},
	}

	for _, tt := range tests {
		if got := FamilyForLabel(tt.label); got != tt.want {
			t.Errorf("FamilyForLabel(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestClient_GenerateOpenAIDialect(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Path = %q, want /chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Hi there!"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{OpenAIBaseURL: server.URL})
	reply, err := client.Generate(context.Background(), FamilyGPT, "gpt-4o", "sk-test", "Hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "Hi there!" {
		t.Errorf("Reply = %q, want %q", reply, "Hi there!")
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer sk-test", gotAuth)
	}
	if gotBody.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", gotBody.Model)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Content != "Hello" {
		t.Errorf("Messages = %+v, want single user Hello", gotBody.Messages)
	}
}

func TestClient_GenerateGeminiDialect(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"parts": []map[string]string{{"text": "Bon"}, {"text": "jour"}},
				}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{GeminiBaseURL: server.URL})
	reply, err := client.Generate(context.Background(), FamilyGemini, "gemini-3-flash-preview", "AIza-test", "Hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "Bonjour" {
		t.Errorf("Reply = %q, want concatenated parts", reply)
	}
	if gotPath != "/models/gemini-3-flash-preview:generateContent" {
		t.Errorf("Path = %q", gotPath)
	}
	if gotKey != "AIza-test" {
		t.Errorf("Key param = %q, want AIza-test", gotKey)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "Hello" {
		t.Errorf("Contents = %+v, want single Hello part", gotBody.Contents)
	}
}

func TestClient_GenerateDeepSeekDialect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-ds" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{DeepSeekBaseURL: server.URL})
	reply, err := client.Generate(context.Background(), FamilyDeepSeek, "deepseek-chat", "sk-ds", "ping")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "ok" {
		t.Errorf("Reply = %q, want ok", reply)
	}
}

func TestClient_GenerateEmptyKey(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.Generate(context.Background(), FamilyGPT, "gpt-4o", "   ", "Hello")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Generate error = %v, want ErrNotConfigured", err)
	}
}

func TestClient_GenerateAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "Incorrect API key provided"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{OpenAIBaseURL: server.URL, MaxRetries: 1})
	_, err := client.Generate(context.Background(), FamilyGPT, "gpt-4o", "sk-bad", "Hello")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("Generate error = %v, want ErrAuthFailed", err)
	}
	if KindOf(err) != ErrKindAuth {
		t.Errorf("Kind = %q, want auth", KindOf(err))
	}

	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("Error is not *Error: %v", err)
	}
	if pe.Message != "Incorrect API key provided" {
		t.Errorf("Message = %q, want provider message", pe.Message)
	}
}

func TestClient_GenerateRejectedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "model not found"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{OpenAIBaseURL: server.URL, MaxRetries: 1})
	_, err := client.Generate(context.Background(), FamilyGPT, "no-such-model", "sk-x", "Hello")
	if KindOf(err) != ErrKindRejected {
		t.Errorf("Kind = %q, want rejected (err=%v)", KindOf(err), err)
	}
}

func TestClient_GenerateRetriesServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "recovered"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{OpenAIBaseURL: server.URL, MaxRetries: 2})
	reply, err := client.Generate(context.Background(), FamilyGPT, "gpt-4o", "sk-x", "Hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "recovered" {
		t.Errorf("Reply = %q, want recovered", reply)
	}
	if attempts != 2 {
		t.Errorf("Attempts = %d, want 2", attempts)
	}
}

func TestClient_GenerateRateLimitedExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{OpenAIBaseURL: server.URL, MaxRetries: 2})
	_, err := client.Generate(context.Background(), FamilyGPT, "gpt-4o", "sk-x", "Hello")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Generate error = %v, want ErrRateLimited", err)
	}
}

func TestClient_GenerateNetworkError(t *testing.T) {
	// Point at a server that is already closed
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(Config{OpenAIBaseURL: server.URL, MaxRetries: 1})
	_, err := client.Generate(context.Background(), FamilyGPT, "gpt-4o", "sk-x", "Hello")
	if KindOf(err) != ErrKindNetwork {
		t.Errorf("Kind = %q, want network (err=%v)", KindOf(err), err)
	}
}

func TestClient_GenerateContextCancel(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read can observe the
		// client disconnect and cancel r.Context(); otherwise this handler
		// never unblocks and the deferred Close deadlocks.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	client := NewClient(Config{OpenAIBaseURL: server.URL})
	_, err := client.Generate(ctx, FamilyGPT, "gpt-4o", "sk-x", "Hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate error = %v, want context.Canceled", err)
	}
}

func TestClient_GenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := NewClient(Config{OpenAIBaseURL: server.URL, MaxRetries: 1})
	_, err := client.Generate(context.Background(), FamilyGPT, "gpt-4o", "sk-x", "Hello")
	if err == nil {
		t.Fatal("Generate succeeded on empty choices")
	}
	if KindOf(err) != ErrKindUnknown {
		t.Errorf("Kind = %q, want unknown", KindOf(err))
	}
}

func TestConfig_Fill(t *testing.T) {
	cfg := Config{}.fill()
	if cfg.GeminiBaseURL != DefaultGeminiURL {
		t.Errorf("GeminiBaseURL = %q", cfg.GeminiBaseURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}

	custom := Config{Timeout: 5 * time.Second, MaxRetries: 1}.fill()
	if custom.Timeout != 5*time.Second || custom.MaxRetries != 1 {
		t.Errorf("fill overwrote explicit values: %+v", custom)
	}
}
