// legalai - legal document Q&A from your terminal.
//
// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/auth"
	"github.com/legalai/legalai-tui/internal/cli"
	"github.com/legalai/legalai-tui/internal/config"
	"github.com/legalai/legalai-tui/internal/logging"
	"github.com/legalai/legalai-tui/internal/registry"
	"github.com/legalai/legalai-tui/internal/speech"
	"github.com/legalai/legalai-tui/internal/storage"
	"github.com/legalai/legalai-tui/internal/ui/chat"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args := cli.ParseArgs(os.Args[1:])

	// version and help need no wiring.
	if args.Command == cli.CmdVersion || args.Command == cli.CmdHelp {
		os.Exit((&cli.App{}).Run(args))
	}

	app, cleanup, err := buildApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer cleanup()

	if args.Command == cli.CmdTUI {
		os.Exit(runTUI(app))
	}
	os.Exit(app.Run(args))
}

// buildApp wires configuration, logging, the API client, storage, auth,
// and the file registry into one App.
func buildApp() (*cli.App, func(), error) {
	if err := config.EnsureConfigDir(); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, nil, err
	}

	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = filepath.Join(dir, "legalai.log")
	}
	logger, err := logging.New(logPath, cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(time.Duration(cfg.API.TimeoutSecs)*time.Second),
		api.WithRateLimit(cfg.API.RateLimitRPS),
		api.WithLogger(logger),
	)

	local, err := storage.NewFileStore(filepath.Join(dir, "state.json"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening state store: %w", err)
	}
	session := storage.NewMemoryStore()

	mgr, err := auth.NewManager(client, local, session, filepath.Join(dir, "key"),
		auth.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := mgr.Load(ctx); err != nil {
		logger.Warn("failed to restore session", zap.Error(err))
	}

	reg := registry.New(local, mgr.Scope())

	// Bookmarks are a convenience; a broken database should not block
	// the rest of the program.
	var bookmarks *storage.BookmarkStore
	if bm, err := storage.OpenBookmarkStore(filepath.Join(dir, "bookmarks.db")); err != nil {
		logger.Warn("bookmarks unavailable", zap.Error(err))
	} else {
		bookmarks = bm
	}

	app := &cli.App{
		Config:    cfg,
		Client:    client,
		Auth:      mgr,
		Registry:  reg,
		Local:     local,
		Bookmarks: bookmarks,
		Logger:    logger,
	}
	cleanup := func() {
		if bookmarks != nil {
			bookmarks.Close()
		}
		logger.Sync()
	}
	return app, cleanup, nil
}

func runTUI(app *cli.App) int {
	m := chat.New(chat.Options{
		Client:    app.Client,
		Registry:  app.Registry,
		Auth:      app.Auth,
		Local:     app.Local,
		Bookmarks: app.Bookmarks,
		Config:    app.Config,
		Logger:    app.Logger,
	})
	if argv := app.Config.Speech.Command; len(argv) > 0 {
		m.SetRecognizer(speech.NewCommand(argv, m.SpeechCallbacks()))
	}

	// Reload the config live so theme or pacing edits apply without a
	// restart.
	if path, err := config.ConfigPath(); err == nil {
		watcher := config.NewWatcher(path, func(next *config.Config) {
			*app.Config = *next
		}, app.Logger)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := watcher.Start(ctx); err != nil {
			app.Logger.Warn("config watcher unavailable", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
