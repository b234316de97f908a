// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecognizer(t *testing.T) {
	var gotErr error
	n := NewNoop(Callbacks{OnError: func(err error) { gotErr = err }})

	assert.False(t, n.Available())
	err := n.Start(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, gotErr, ErrUnsupported)

	// Stop on a never-started recognizer is fine.
	n.Stop()
	n.Stop()
}

func TestCommandRecognizerStreamsLines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	var mu sync.Mutex
	var results []string
	ended := make(chan struct{})

	c := NewCommand(
		[]string{"sh", "-c", "printf 'hello world\\nsecond phrase\\n'"},
		Callbacks{
			OnResult: func(text string) {
				mu.Lock()
				results = append(results, text)
				mu.Unlock()
			},
			OnEnd: func() { close(ended) },
		},
	)
	assert.True(t, c.Available())

	require.NoError(t, c.Start(context.Background()))
	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		t.Fatal("recognizer did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"hello world", "second phrase"}, results)
}

func TestCommandRecognizerStopIsIdempotent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	ended := make(chan struct{})
	c := NewCommand(
		[]string{"sh", "-c", "sleep 30"},
		Callbacks{OnEnd: func() { close(ended) }},
	)
	require.NoError(t, c.Start(context.Background()))

	c.Stop()
	c.Stop() // must not panic

	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		t.Fatal("recognizer did not stop")
	}
}

func TestCommandRecognizerEmptyArgv(t *testing.T) {
	c := NewCommand(nil, Callbacks{})
	assert.False(t, c.Available())
	assert.ErrorIs(t, c.Start(context.Background()), ErrUnsupported)
}
