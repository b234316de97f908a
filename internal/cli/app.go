// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/auth"
	"github.com/legalai/legalai-tui/internal/config"
	"github.com/legalai/legalai-tui/internal/registry"
	"github.com/legalai/legalai-tui/internal/storage"
)

// App bundles the wired dependencies every command handler needs. main
// constructs one App and hands it the parsed arguments.
type App struct {
	Config    *config.Config
	Client    *api.Client
	Auth      *auth.Manager
	Registry  *registry.Registry
	Local     storage.Store
	Bookmarks *storage.BookmarkStore
	Logger    *zap.Logger
}

// opTimeout bounds one-shot CLI operations.
const opTimeout = 2 * time.Minute

func (app *App) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// resolveTarget picks the file hash for a command, from an explicit
// --file flag, free text, or the persisted working document.
func (app *App) resolveTarget(fileFlag, text string) (string, error) {
	if fileFlag != "" {
		return app.Registry.Resolve(registry.ParseFileRef(fileFlag))
	}
	if text != "" {
		if name, ok := app.Registry.ResolveFromText(text); ok {
			return app.Registry.Resolve(registry.NameRef(name))
		}
	}
	if current, ok := app.Local.Get(storage.KeyCurrentFileHash); ok && current != "" {
		return current, nil
	}
	if name, ok := app.Registry.ResolveFromText(""); ok {
		return app.Registry.Resolve(registry.NameRef(name))
	}
	return "", registry.ErrNoFile
}
