// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import "strings"

// Family identifies a provider API dialect.
type Family string

const (
	FamilyGemini   Family = "gemini"
	FamilyGPT      Family = "gpt"
	FamilyDeepSeek Family = "deepseek"
)

// FamilyForLabel derives the provider family from a credential label.
// Labels are user-facing strings like "Google key (2)"; the provider
// name inside the label decides the family. Unrecognized labels fall
// back to the OpenAI dialect.
func FamilyForLabel(label string) Family {
	switch {
	case strings.Contains(label, "Google"):
		return FamilyGemini
	case strings.Contains(label, "DeepSeek"):
		return FamilyDeepSeek
	case strings.Contains(label, "OpenAI"):
		return FamilyGPT
	default:
		return FamilyGPT
	}
}
