// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements HTTP clients for cloud LLM inference.
//
// Three provider families are supported: Google Gemini (generateContent
// dialect), OpenAI (chat completions dialect), and DeepSeek (OpenAI
// dialect at a different base URL). A credential's label selects the
// family; the model id per family comes from configuration.
//
// # Key Types
//
//   - Client: HTTP client for all three families
//   - Family: provider family identifier
//   - Error: typed provider failure with a Kind
//
// # Usage
//
//	client := provider.NewClient(provider.DefaultConfig())
//	reply, err := client.Generate(ctx, provider.FamilyGemini,
//	    "gemini-3-flash-preview", apiKey, "Hello")
//
// Requests are rate limited and retried with exponential backoff for
// transient failures. Response bodies are size limited.
package provider
