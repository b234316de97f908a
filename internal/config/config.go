// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists client configuration.
//
// Configuration lives at ~/.legalai/config.toml. Precedence, lowest to
// highest: built-in defaults, the TOML file, LEGALAI_* environment
// variables. Saving always writes the full config atomically.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/legalai/legalai-tui/internal/util"
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the root configuration.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	Upload  UploadConfig  `toml:"upload" json:"upload"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Speech  SpeechConfig  `toml:"speech" json:"speech"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// APIConfig controls the backend connection.
type APIConfig struct {
	// BaseURL of the backend, ending in /api.
	BaseURL string `toml:"base_url" json:"base_url"`

	// TimeoutSecs bounds every request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`

	// TopK is the number of evidence chunks requested per question.
	TopK int `toml:"top_k" json:"top_k"`

	// RateLimitRPS caps outbound requests per second (0 = default).
	RateLimitRPS float64 `toml:"rate_limit_rps" json:"rate_limit_rps"`
}

// UploadConfig controls document upload behavior.
type UploadConfig struct {
	// PollIntervalSecs between upload status checks.
	PollIntervalSecs int `toml:"poll_interval_secs" json:"poll_interval_secs"`

	// MaxPollAttempts before giving up on a processing upload.
	MaxPollAttempts int `toml:"max_poll_attempts" json:"max_poll_attempts"`

	// DefaultType is the upload pipeline: normal or confidential.
	DefaultType string `toml:"default_type" json:"default_type"`
}

// UIConfig controls the chat interface.
type UIConfig struct {
	// Theme name: dark or light.
	Theme string `toml:"theme" json:"theme"`

	// TypingIntervalMs is the per-character delay of the answer reveal
	// animation. 0 disables the animation.
	TypingIntervalMs int `toml:"typing_interval_ms" json:"typing_interval_ms"`

	// MarkdownWidth is the wrap width for rendered answers.
	MarkdownWidth int `toml:"markdown_width" json:"markdown_width"`
}

// SpeechConfig wires an optional external transcriber.
type SpeechConfig struct {
	// Command line started for voice capture; each stdout line becomes
	// one recognized phrase. Empty disables speech input.
	Command []string `toml:"command" json:"command"`
}

// LoggingConfig controls the debug log file.
type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULTS & PATHS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "http://localhost:8000/api",
			TimeoutSecs:  30,
			TopK:         5,
			RateLimitRPS: 10,
		},
		Upload: UploadConfig{
			PollIntervalSecs: 10,
			MaxPollAttempts:  30,
			DefaultType:      "normal",
		},
		UI: UIConfig{
			Theme:            "dark",
			TypingIntervalMs: 8,
			MarkdownWidth:    80,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns ~/.legalai, creating nothing.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".legalai"), nil
}

// ConfigPath returns the TOML config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates ~/.legalai with owner-only permissions.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD & SAVE
// =============================================================================

// Load reads the config file (if present), layers env overrides on top of
// defaults, and validates the result.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file. A missing
// file is not an error; defaults apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to its default path atomically.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the config as TOML to path atomically.
func SaveToPath(cfg *Config, path string) error {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides layers LEGALAI_* environment variables over the
// loaded values. Invalid numeric values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LEGALAI_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("LEGALAI_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv("LEGALAI_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TopK = n
		}
	}
	if v := os.Getenv("LEGALAI_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("LEGALAI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LEGALAI_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// fillDefaults replaces zero values left by a sparse config file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if c.API.TopK == 0 {
		c.API.TopK = def.API.TopK
	}
	if c.API.RateLimitRPS == 0 {
		c.API.RateLimitRPS = def.API.RateLimitRPS
	}
	if c.Upload.PollIntervalSecs == 0 {
		c.Upload.PollIntervalSecs = def.Upload.PollIntervalSecs
	}
	if c.Upload.MaxPollAttempts == 0 {
		c.Upload.MaxPollAttempts = def.Upload.MaxPollAttempts
	}
	if c.Upload.DefaultType == "" {
		c.Upload.DefaultType = def.Upload.DefaultType
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.UI.MarkdownWidth == 0 {
		c.UI.MarkdownWidth = def.UI.MarkdownWidth
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return ValidationError{"api.base_url", "must start with http:// or https://"}
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		return ValidationError{"api.timeout_secs", "must be between 1 and 600"}
	}
	if c.API.TopK < 1 || c.API.TopK > 50 {
		return ValidationError{"api.top_k", "must be between 1 and 50"}
	}
	if c.Upload.PollIntervalSecs < 1 {
		return ValidationError{"upload.poll_interval_secs", "must be at least 1"}
	}
	if c.Upload.MaxPollAttempts < 1 {
		return ValidationError{"upload.max_poll_attempts", "must be at least 1"}
	}
	switch c.Upload.DefaultType {
	case "normal", "confidential":
	default:
		return ValidationError{"upload.default_type", "must be normal or confidential"}
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return ValidationError{"ui.theme", "must be dark or light"}
	}
	if c.UI.TypingIntervalMs < 0 || c.UI.TypingIntervalMs > 1000 {
		return ValidationError{"ui.typing_interval_ms", "must be between 0 and 1000"}
	}
	return nil
}
