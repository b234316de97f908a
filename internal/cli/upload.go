// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// upload.go - document upload and file management commands.
//
// Examples:
//   legalai upload lease.pdf
//   legalai upload nda.pdf --confidential
//   legalai upload big.pdf --no-wait
//   legalai files
//   legalai delete lease.pdf
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/registry"
	"github.com/legalai/legalai-tui/internal/storage"
)

// RunUpload uploads a document and, unless --no-wait is given, follows
// its processing status until it completes.
func (app *App) RunUpload(rest []string) int {
	p := NewArgParser(rest)
	path := p.Positional(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: legalai upload PATH [--confidential] [--no-wait]")
		return 2
	}

	uploadType := api.UploadNormal
	if p.BoolFlag("confidential") {
		uploadType = api.UploadConfidential
	}

	ctx, cancel := app.ctx()
	defer cancel()

	var resp *api.UploadResponse
	var err error
	if app.Auth.IsAuthenticated() {
		resp, err = app.Client.UploadFile(ctx, path, uploadType)
	} else {
		resp, err = app.Client.GuestUploadFile(ctx, path)
	}
	if err != nil {
		return fail(err)
	}

	name := resp.Filename
	if name == "" {
		name = filepath.Base(path)
	}
	if err := app.Registry.Register(name, resp.FileID); err != nil {
		app.Logger.Warn("failed to register uploaded file")
	}
	if err := app.Local.Set(storage.KeyCurrentFileHash, resp.FileID); err != nil {
		app.Logger.Warn("failed to persist current file")
	}

	if resp.IsDuplicate {
		fmt.Printf("%s was already processed; it is now the working document\n", name)
		return 0
	}
	fmt.Printf("uploaded %s", name)
	if resp.Pages > 0 {
		fmt.Printf(" (%d pages)", resp.Pages)
	}
	fmt.Println()

	if p.BoolFlag("no-wait") {
		fmt.Println("processing in the background; run 'legalai status' to check")
		return 0
	}
	return app.waitForProcessing(resp.FileID)
}

// waitForProcessing blocks until the backend reports a terminal status.
func (app *App) waitForProcessing(fileID string) int {
	poller := api.NewStatusPoller(app.Client, fileID,
		api.WithPollInterval(time.Duration(app.Config.Upload.PollIntervalSecs)*time.Second),
		api.WithMaxPollAttempts(app.Config.Upload.MaxPollAttempts),
		api.WithPollerLogger(app.Logger),
	)
	defer poller.Stop()

	fmt.Print("processing")
	for r := range poller.Start(context.Background()) {
		fmt.Print(".")
		if !r.Final {
			continue
		}
		fmt.Println()
		switch {
		case r.Status != nil && r.Status.Status == api.StatusCompleted:
			fmt.Println("document processed; ready for questions")
			return 0
		case r.Status != nil && r.Status.Status == api.StatusFailed:
			fmt.Fprintln(os.Stderr, "processing failed:", r.Status.Message)
			return 1
		default:
			fmt.Println("still processing; answers may be incomplete for a while")
			return 0
		}
	}
	fmt.Println()
	return 0
}

// RunFiles lists the registered files.
func (app *App) RunFiles(rest []string) int {
	files := app.Registry.Files()
	if len(files) == 0 {
		fmt.Println("no files uploaded yet; use 'legalai upload PATH'")
		return 0
	}
	last := app.Registry.LastUploadedFile()
	for _, f := range files {
		marker := "  "
		if last != nil && f.Name == last.Filename {
			marker = "* "
		}
		fmt.Println(marker + f.Name)
	}
	return 0
}

// RunDelete removes an uploaded file from the backend and the local
// registry's working-document slot.
func (app *App) RunDelete(rest []string) int {
	p := NewArgParser(rest)
	ref := p.Positional(0)
	if ref == "" {
		fmt.Fprintln(os.Stderr, "usage: legalai delete NAME")
		return 2
	}

	hash, err := app.Registry.Resolve(registry.ParseFileRef(ref))
	if err != nil {
		return fail(err)
	}

	ctx, cancel := app.ctx()
	defer cancel()
	if err := app.Client.DeleteFile(ctx, hash); err != nil {
		return fail(err)
	}

	if current, ok := app.Local.Get(storage.KeyCurrentFileHash); ok && current == hash {
		if err := app.Local.Delete(storage.KeyCurrentFileHash); err != nil {
			app.Logger.Warn("failed to clear current file")
		}
	}
	fmt.Println("deleted", ref)
	return 0
}
