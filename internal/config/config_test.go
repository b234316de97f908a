// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.Equal(t, 10, cfg.Upload.PollIntervalSecs)
	assert.Equal(t, 8, cfg.UI.TypingIntervalMs)
}

func TestLoadSparseFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://backend.example.com/api"

[ui]
theme = "light"
`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://backend.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "light", cfg.UI.Theme)
	// Untouched sections keep defaults.
	assert.Equal(t, 5, cfg.API.TopK)
	assert.Equal(t, 30, cfg.Upload.MaxPollAttempts)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEGALAI_BASE_URL", "https://env.example.com/api")
	t.Setenv("LEGALAI_TOP_K", "7")
	t.Setenv("LEGALAI_TIMEOUT_SECS", "not-a-number")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 7, cfg.API.TopK)
	// Garbage numeric env values are ignored.
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://x" }, "api.base_url"},
		{"timeout too small", func(c *Config) { c.API.TimeoutSecs = 0 }, "api.timeout_secs"},
		{"topk out of range", func(c *Config) { c.API.TopK = 100 }, "api.top_k"},
		{"bad upload type", func(c *Config) { c.Upload.DefaultType = "secret" }, "upload.default_type"},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
		{"typing interval", func(c *Config) { c.UI.TypingIntervalMs = -1 }, "ui.typing_interval_ms"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "https://saved.example.com/api"
	cfg.Speech.Command = []string{"whisper-stream", "--lang", "en"}
	require.NoError(t, SaveToPath(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com/api", loaded.API.BaseURL)
	assert.Equal(t, []string{"whisper-stream", "--lang", "en"}, loaded.Speech.Command)
}
