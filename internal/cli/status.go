// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - backend connectivity and local state overview.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// RunStatus checks backend reachability and prints a short overview of
// the local state.
func (app *App) RunStatus(rest []string) int {
	p := NewArgParser(rest)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	healthErr := app.Client.CheckHealth(ctx)
	latency := time.Since(start).Round(time.Millisecond)

	account := "guest"
	if app.Auth.IsAuthenticated() {
		account = app.Auth.CurrentUser().Email
	}

	if p.BoolFlag("json") {
		out := map[string]any{
			"backend": app.Client.BaseURL(),
			"healthy": healthErr == nil,
			"latency": latency.String(),
			"account": account,
			"files":   app.Registry.Len(),
			"version": Version,
		}
		if healthErr != nil {
			out["error"] = healthErr.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fail(err)
		}
		if healthErr != nil {
			return 1
		}
		return 0
	}

	fmt.Println("backend:", app.Client.BaseURL())
	if healthErr != nil {
		fmt.Printf("status:  unreachable (%v)\n", healthErr)
	} else {
		fmt.Printf("status:  ok (%s)\n", latency)
	}
	fmt.Println("account:", account)
	fmt.Println("files:  ", app.Registry.Len())
	if last := app.Registry.LastUploadedFile(); last != nil {
		fmt.Println("working:", last.Filename)
	}

	if healthErr != nil {
		return 1
	}
	return 0
}
