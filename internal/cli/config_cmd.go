// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - configuration inspection and edits.
//
//	legalai config            show the effective configuration
//	legalai config show
//	legalai config path       print the config file location
//	legalai config set KEY VALUE
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/legalai/legalai-tui/internal/config"
)

// RunConfig handles the config subcommands.
func (app *App) RunConfig(rest []string) int {
	p := NewArgParser(rest)

	switch p.Subcommand() {
	case "", "show":
		cfg := app.Config
		fmt.Println("api.base_url          =", cfg.API.BaseURL)
		fmt.Println("api.timeout_secs      =", cfg.API.TimeoutSecs)
		fmt.Println("api.top_k             =", cfg.API.TopK)
		fmt.Println("upload.poll_interval  =", cfg.Upload.PollIntervalSecs)
		fmt.Println("upload.max_attempts   =", cfg.Upload.MaxPollAttempts)
		fmt.Println("upload.default_type   =", cfg.Upload.DefaultType)
		fmt.Println("ui.theme              =", cfg.UI.Theme)
		fmt.Println("ui.typing_interval_ms =", cfg.UI.TypingIntervalMs)
		fmt.Println("logging.level         =", cfg.Logging.Level)
		return 0

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return fail(err)
		}
		fmt.Println(path)
		return 0

	case "set":
		key, value := p.Positional(1), p.Positional(2)
		if key == "" || value == "" {
			fmt.Fprintln(os.Stderr, "usage: legalai config set KEY VALUE")
			return 2
		}
		if err := setConfigKey(app.Config, key, value); err != nil {
			return fail(err)
		}
		if err := app.Config.Validate(); err != nil {
			return fail(err)
		}
		if err := config.Save(app.Config); err != nil {
			return fail(err)
		}
		fmt.Printf("%s = %s\n", key, value)
		return 0

	default:
		fmt.Fprintln(os.Stderr, "usage: legalai config [show|set KEY VALUE|path]")
		return 2
	}
}

func setConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants a number: %w", key, err)
		}
		cfg.API.TimeoutSecs = n
	case "api.top_k":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants a number: %w", key, err)
		}
		cfg.API.TopK = n
	case "upload.default_type":
		cfg.Upload.DefaultType = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.typing_interval_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants a number: %w", key, err)
		}
		cfg.UI.TypingIntervalMs = n
	case "logging.level":
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
