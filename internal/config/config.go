// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for arsgpt.
//
// Configuration lives in a single TOML file with sensible defaults:
//
//   - ~/.arsgpt/config.toml
//
// Storage paths are resolved here exactly once, at startup, and injected
// into the stores; nothing below this package computes paths on its own.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/arsgpt-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete arsgpt configuration.
type Config struct {
	// BaseDir is the root directory for all application state.
	BaseDir string `toml:"base_dir"`

	// HistoryDir holds one JSON file per session; archived sessions live
	// in the "archived" subdirectory beneath it.
	HistoryDir string `toml:"history_dir"`

	// CredentialsFile is the provider credential registry.
	CredentialsFile string `toml:"credentials_file"`

	// Provider configuration
	Provider ProviderConfig `toml:"provider"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// ProviderConfig contains LLM provider settings.
type ProviderConfig struct {
	// TimeoutSeconds bounds every provider call (title synthesis included).
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RequestsPerMinute caps outbound provider requests.
	RequestsPerMinute int `toml:"requests_per_minute"`

	// Default model ids per provider family.
	GeminiModel   string `toml:"gemini_model"`
	OpenAIModel   string `toml:"openai_model"`
	DeepSeekModel string `toml:"deepseek_model"`

	// Base URL overrides, empty means the provider's public endpoint.
	GeminiBaseURL   string `toml:"gemini_base_url"`
	OpenAIBaseURL   string `toml:"openai_base_url"`
	DeepSeekBaseURL string `toml:"deepseek_base_url"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light". Auto detects the terminal
	// background at startup.
	Theme string `toml:"theme"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfig returns the built-in defaults. Paths derived from BaseDir
// are left empty and filled in by applyDefaults after any user overrides.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			TimeoutSeconds:    60,
			RequestsPerMinute: 30,
			GeminiModel:       "gemini-3-flash-preview",
			OpenAIModel:       "gpt-4o",
			DeepSeekModel:     "deepseek-chat",
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".arsgpt", "config.toml"), nil
}

// applyDefaults fills every zero value after user overrides were applied.
func (c *Config) applyDefaults() error {
	if c.BaseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.BaseDir = filepath.Join(homeDir, ".arsgpt")
	}
	if c.HistoryDir == "" {
		c.HistoryDir = filepath.Join(c.BaseDir, "chat_history")
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = filepath.Join(c.BaseDir, "models.json")
	}

	def := DefaultConfig()
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = def.Provider.TimeoutSeconds
	}
	if c.Provider.RequestsPerMinute <= 0 {
		c.Provider.RequestsPerMinute = def.Provider.RequestsPerMinute
	}
	if c.Provider.GeminiModel == "" {
		c.Provider.GeminiModel = def.Provider.GeminiModel
	}
	if c.Provider.OpenAIModel == "" {
		c.Provider.OpenAIModel = def.Provider.OpenAIModel
	}
	if c.Provider.DeepSeekModel == "" {
		c.Provider.DeepSeekModel = def.Provider.DeepSeekModel
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file at path, falling back to defaults for every
// missing value. A missing file is not an error: you get the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config atomically to path.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}

// EnsureDirs creates the storage directories the stores expect.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.BaseDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(c.HistoryDir, 0755)
}
