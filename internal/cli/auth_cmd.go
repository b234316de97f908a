// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, register, logout, whoami.
//
// SECURITY: passwords are read with terminal echo disabled and are never
// written to the log or to disk.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// RunLogin signs the user in and stores the session locally.
func (app *App) RunLogin(rest []string) int {
	p := NewArgParser(rest)

	email := p.Positional(0)
	if email == "" {
		var err error
		email, err = promptLine("email: ")
		if err != nil {
			return fail(err)
		}
	}
	password, err := promptPassword("password: ")
	if err != nil {
		return fail(err)
	}

	ctx, cancel := app.ctx()
	defer cancel()
	if err := app.Auth.Login(ctx, email, password); err != nil {
		return fail(err)
	}

	app.Registry.SetScope(app.Auth.Scope())
	fmt.Printf("signed in as %s\n", app.Auth.CurrentUser().Email)
	return 0
}

// RunRegister creates an account. The backend issues a provisional
// session; signing in again is required after a restart.
func (app *App) RunRegister(rest []string) int {
	p := NewArgParser(rest)

	email := p.Positional(0)
	if email == "" {
		var err error
		email, err = promptLine("email: ")
		if err != nil {
			return fail(err)
		}
	}
	name := p.Flag("name")
	if name == "" {
		var err error
		name, err = promptLine("display name (optional): ")
		if err != nil {
			return fail(err)
		}
	}

	password, err := promptPassword("password: ")
	if err != nil {
		return fail(err)
	}
	confirm, err := promptPassword("confirm password: ")
	if err != nil {
		return fail(err)
	}
	if password != confirm {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		return 1
	}

	ctx, cancel := app.ctx()
	defer cancel()
	if err := app.Auth.Register(ctx, email, password, name); err != nil {
		return fail(err)
	}

	app.Registry.SetScope(app.Auth.Scope())
	fmt.Printf("account created for %s\n", email)
	return 0
}

// RunLogout clears the stored session.
func (app *App) RunLogout() int {
	if err := app.Auth.Logout(); err != nil {
		return fail(err)
	}
	app.Registry.SetScope(app.Auth.Scope())
	fmt.Println("signed out")
	return 0
}

// RunWhoami shows the signed-in user.
func (app *App) RunWhoami() int {
	if !app.Auth.IsAuthenticated() {
		fmt.Println("not signed in (guest mode)")
		return 0
	}
	user := app.Auth.CurrentUser()
	fmt.Println("email:", user.Email)
	if user.DisplayName != "" {
		fmt.Println("name: ", user.DisplayName)
	}
	fmt.Println("uid:  ", user.UID)
	return 0
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Piped input (tests, scripts): fall back to a plain line read.
		return promptLine("")
	}
	pw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
