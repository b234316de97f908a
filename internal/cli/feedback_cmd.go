// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// feedback_cmd.go - answer feedback and model retraining.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// RunFeedback submits a rating for a question/answer pair.
//
//	legalai feedback --question "..." --answer "..." --rating 5
//	legalai feedback --rating 1 --confidential
func (app *App) RunFeedback(rest []string) int {
	p := NewArgParser(rest)

	rating := p.IntFlag("rating", 5)
	if rating < 1 || rating > 5 {
		fmt.Fprintln(os.Stderr, "rating must be between 1 and 5")
		return 2
	}

	question := p.Flag("question")
	answer := p.Flag("answer")
	if question == "" || answer == "" {
		fmt.Fprintln(os.Stderr, "usage: legalai feedback --question TEXT --answer TEXT [--rating 1-5] [--confidential]")
		return 2
	}

	hash, err := app.resolveTarget(p.Flag("file"), strings.Join(p.Positionals(), " "))
	if err != nil {
		return fail(err)
	}

	ctx, cancel := app.ctx()
	defer cancel()
	resp, err := app.Client.SubmitFeedback(ctx, hash, p.Flag("chunk"), question, answer, rating, p.BoolFlag("confidential"))
	if err != nil {
		return fail(err)
	}
	if resp.Message != "" {
		fmt.Println(resp.Message)
	} else {
		fmt.Println("feedback recorded")
	}
	return 0
}

// RunRetrain asks the backend to rebuild its retrieval index from the
// accumulated feedback.
func (app *App) RunRetrain() int {
	ctx, cancel := app.ctx()
	defer cancel()
	resp, err := app.Client.TriggerRetrain(ctx)
	if err != nil {
		return fail(err)
	}
	if resp.Message != "" {
		fmt.Println(resp.Message)
	} else {
		fmt.Println("retrain requested")
	}
	return 0
}
