// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// COLOR PALETTE
// =============================================================================

// Palette. Dark values follow the original Material-inspired scheme.
var (
	Primary    = lipgloss.AdaptiveColor{Light: "#4F378B", Dark: "#D0BCFF"}
	PrimaryDim = lipgloss.AdaptiveColor{Light: "#6750A4", Dark: "#4F378B"}
	Surface    = lipgloss.AdaptiveColor{Light: "#F3F3F3", Dark: "#2B2930"}
	Outline    = lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#49454F"}
	Text       = lipgloss.AdaptiveColor{Light: "#1D1B20", Dark: "#E6E1E5"}
	TextMuted  = lipgloss.AdaptiveColor{Light: "#79747E", Dark: "#CAC4D0"}
	Danger     = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#F2B8B5"}
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components for the chat view.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Transcript
	UserBubble     lipgloss.Style
	AssistantLabel lipgloss.Style
	ErrorText      lipgloss.Style

	// Sidebar
	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarSnippet  lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputHint      lipgloss.Style
	AttachBadge    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusState  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	Spinner lipgloss.Style
}

// NewTheme builds the theme, detecting terminal capabilities once.
func NewTheme() *Theme {
	return &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),

		UserBubble: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface).
			Padding(0, 1).
			MarginLeft(4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary),
		AssistantLabel: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		ErrorText: lipgloss.NewStyle().
			Foreground(Danger),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(Outline).
			Padding(0, 1),
		SidebarTitle: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		SidebarItem: lipgloss.NewStyle().
			Foreground(Text),
		SidebarSelected: lipgloss.NewStyle().
			Foreground(Text).
			Background(PrimaryDim).
			Bold(true),
		SidebarSnippet: lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true),

		InputContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Outline).
			Padding(0, 1),
		InputHint: lipgloss.NewStyle().
			Foreground(TextMuted),
		AttachBadge: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(TextMuted),
		StatusState: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		ShortcutKey: lipgloss.NewStyle().
			Foreground(Primary),
		ShortcutDesc: lipgloss.NewStyle().
			Foreground(TextMuted),

		Spinner: lipgloss.NewStyle().
			Foreground(Primary),
	}
}
