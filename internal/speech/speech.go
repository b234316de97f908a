// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech abstracts voice-to-text capture behind a small capability
// interface. Terminals have no standard microphone API, so the default
// implementation is a no-op; users with a local transcriber (whisper.cpp,
// vosk, etc.) can configure its command line and have recognized phrases
// streamed into the chat input.
package speech

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
)

// ErrUnsupported is reported by recognizers that cannot capture audio.
var ErrUnsupported = errors.New("speech recognition not available")

// Recognizer captures speech and delivers transcribed text.
// Start begins capture; results and errors arrive on the callbacks until
// Stop is called or the context ends. Stop is idempotent.
type Recognizer interface {
	Start(ctx context.Context) error
	Stop()
	Available() bool
}

// Callbacks receive recognizer events. Nil fields are ignored.
type Callbacks struct {
	OnResult func(text string)
	OnError  func(err error)
	OnEnd    func()
}

func (c Callbacks) result(text string) {
	if c.OnResult != nil {
		c.OnResult(text)
	}
}

func (c Callbacks) fail(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

func (c Callbacks) end() {
	if c.OnEnd != nil {
		c.OnEnd()
	}
}

// =============================================================================
// NO-OP RECOGNIZER
// =============================================================================

// Noop is the fallback recognizer for environments without a transcriber.
type Noop struct {
	cb Callbacks
}

// NewNoop creates a recognizer that reports ErrUnsupported on Start.
func NewNoop(cb Callbacks) *Noop {
	return &Noop{cb: cb}
}

func (n *Noop) Start(context.Context) error {
	n.cb.fail(ErrUnsupported)
	return ErrUnsupported
}

func (n *Noop) Stop() {}

func (n *Noop) Available() bool { return false }

// =============================================================================
// COMMAND RECOGNIZER
// =============================================================================

// Command runs an external transcriber process and treats each line it
// prints on stdout as one recognized phrase.
type Command struct {
	mu      sync.Mutex
	argv    []string
	cb      Callbacks
	cancel  context.CancelFunc
	running bool
	once    *sync.Once
}

// NewCommand creates a recognizer around the given command line.
func NewCommand(argv []string, cb Callbacks) *Command {
	return &Command{argv: argv, cb: cb, once: &sync.Once{}}
}

func (c *Command) Available() bool {
	return len(c.argv) > 0
}

// Start launches the transcriber. Restarting after Stop is allowed.
func (c *Command) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.argv) == 0 {
		return ErrUnsupported
	}
	if c.running {
		return errors.New("speech capture already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return err
	}

	c.cancel = cancel
	c.running = true
	c.once = &sync.Once{}

	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				c.cb.result(line)
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			c.cb.fail(err)
		}

		cmd.Wait()

		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		c.cb.end()
	}()

	return nil
}

// Stop terminates the transcriber process. Safe to call repeatedly and
// while stopped.
func (c *Command) Stop() {
	c.mu.Lock()
	once, cancel := c.once, c.cancel
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	once.Do(cancel)
}
