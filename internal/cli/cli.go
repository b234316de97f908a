// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - command parsing and dispatch for legalai.
package cli

import (
	"fmt"
	"os"
	"runtime"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdUpload
	CmdFiles
	CmdDelete
	CmdSummarize
	CmdCompare
	CmdSimplify
	CmdHistory
	CmdBookmarks
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdFeedback
	CmdRetrain
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds the parsed command line.
type Args struct {
	Command Command

	// Remaining arguments after the command word.
	Rest []string
}

const usageText = `legalai - legal document Q&A from your terminal

Upload contracts, leases, and agreements, then ask questions about them.
Answers cite the passages they are based on and flag risky clauses.

Usage:
  legalai                          Start the interactive TUI (default)
  legalai ask "question" [--file NAME]
                                   Ask a single question
  legalai chat                     Plain-terminal chat (no TUI)
  legalai upload PATH [--confidential] [--no-wait]
                                   Upload a document
  legalai files                    List uploaded files
  legalai delete NAME              Delete an uploaded file
  legalai summarize [NAME]         Summarize a document
  legalai compare NAME1 NAME2      Compare two documents
  legalai simplify [NAME] [--level basic|intermediate|advanced]
                                   Rewrite a document in plain language
  legalai history [NAME] [--limit N]
                                   Show saved Q&A history
  legalai bookmarks [list|delete ID]
                                   Manage bookmarked answers
  legalai login [EMAIL]            Sign in
  legalai register [EMAIL]         Create an account
  legalai logout                   Sign out
  legalai whoami                   Show the signed-in user
  legalai feedback [--rating N]    Rate the last saved answer
  legalai retrain                  Ask the backend to retrain its index
  legalai status                   Check backend connectivity
  legalai config [show|set KEY VALUE|path]
                                   Configuration
  legalai version                  Show version
  legalai help                     Show this help

Common flags:
  --json          Machine-readable output where supported
  --file NAME     Target a specific uploaded file

Files are referenced by the name they were uploaded under; partial,
case-insensitive matches work, as do @mentions inside questions.

Environment:
  LEGALAI_BASE_URL    Override the backend URL
  LEGALAI_LOG_LEVEL   debug | info | warn | error

Configuration and state live in ~/.legalai/.
`

// ParseArgs parses os.Args[1:] into a command and its remaining arguments.
func ParseArgs(argv []string) Args {
	if len(argv) == 0 {
		return Args{Command: CmdTUI}
	}

	cmd, rest := argv[0], argv[1:]
	switch cmd {
	case "ask", "a":
		return Args{Command: CmdAsk, Rest: rest}
	case "chat", "c":
		return Args{Command: CmdChat, Rest: rest}
	case "upload", "up":
		return Args{Command: CmdUpload, Rest: rest}
	case "files", "ls":
		return Args{Command: CmdFiles, Rest: rest}
	case "delete", "rm":
		return Args{Command: CmdDelete, Rest: rest}
	case "summarize", "sum":
		return Args{Command: CmdSummarize, Rest: rest}
	case "compare":
		return Args{Command: CmdCompare, Rest: rest}
	case "simplify":
		return Args{Command: CmdSimplify, Rest: rest}
	case "history":
		return Args{Command: CmdHistory, Rest: rest}
	case "bookmarks", "bm":
		return Args{Command: CmdBookmarks, Rest: rest}
	case "login":
		return Args{Command: CmdLogin, Rest: rest}
	case "register", "signup":
		return Args{Command: CmdRegister, Rest: rest}
	case "logout":
		return Args{Command: CmdLogout, Rest: rest}
	case "whoami":
		return Args{Command: CmdWhoami, Rest: rest}
	case "feedback":
		return Args{Command: CmdFeedback, Rest: rest}
	case "retrain":
		return Args{Command: CmdRetrain, Rest: rest}
	case "status", "s":
		return Args{Command: CmdStatus, Rest: rest}
	case "config":
		return Args{Command: CmdConfig, Rest: rest}
	case "version", "-V", "--version":
		return Args{Command: CmdVersion}
	case "help", "-h", "--help":
		return Args{Command: CmdHelp}
	default:
		// Unknown word: treat the whole line as a question.
		return Args{Command: CmdAsk, Rest: argv}
	}
}

// Run dispatches a parsed command. The returned code is the process exit
// status.
func (app *App) Run(args Args) int {
	switch args.Command {
	case CmdAsk:
		return app.RunAsk(args.Rest)
	case CmdChat:
		return app.RunChat(args.Rest)
	case CmdUpload:
		return app.RunUpload(args.Rest)
	case CmdFiles:
		return app.RunFiles(args.Rest)
	case CmdDelete:
		return app.RunDelete(args.Rest)
	case CmdSummarize:
		return app.RunSummarize(args.Rest)
	case CmdCompare:
		return app.RunCompare(args.Rest)
	case CmdSimplify:
		return app.RunSimplify(args.Rest)
	case CmdHistory:
		return app.RunHistory(args.Rest)
	case CmdBookmarks:
		return app.RunBookmarks(args.Rest)
	case CmdLogin:
		return app.RunLogin(args.Rest)
	case CmdRegister:
		return app.RunRegister(args.Rest)
	case CmdLogout:
		return app.RunLogout()
	case CmdWhoami:
		return app.RunWhoami()
	case CmdFeedback:
		return app.RunFeedback(args.Rest)
	case CmdRetrain:
		return app.RunRetrain()
	case CmdStatus:
		return app.RunStatus(args.Rest)
	case CmdConfig:
		return app.RunConfig(args.Rest)
	case CmdVersion:
		printVersion()
		return 0
	case CmdHelp:
		fmt.Print(usageText)
		return 0
	default:
		fmt.Print(usageText)
		return 0
	}
}

func printVersion() {
	fmt.Printf("legalai %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// fail prints an error to stderr and returns a non-zero exit code.
func fail(err error) int {
	fmt.Fprintln(os.Stderr, "error:", err)
	return 1
}
