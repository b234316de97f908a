// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectResults(ch <-chan PollResult) []PollResult {
	var out []PollResult
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestPollerStopsOnTerminalStatus(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		status := "processing"
		if n >= 3 {
			status = StatusCompleted
		}
		json.NewEncoder(w).Encode(UploadStatus{FileID: "f1", Status: status})
	})

	p := NewStatusPoller(c, "f1",
		WithPollInterval(10*time.Millisecond),
		WithMaxPollAttempts(10))
	results := collectResults(p.Start(context.Background()))

	require.Len(t, results, 3)
	last := results[len(results)-1]
	assert.True(t, last.Final)
	assert.Equal(t, StatusCompleted, last.Status.Status)
	assert.EqualValues(t, 3, calls.Load())
}

func TestPollerGivesUpAfterMaxAttempts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(UploadStatus{FileID: "f1", Status: "processing"})
	})

	p := NewStatusPoller(c, "f1",
		WithPollInterval(5*time.Millisecond),
		WithMaxPollAttempts(4))
	results := collectResults(p.Start(context.Background()))

	require.Len(t, results, 4)
	assert.True(t, results[3].Final)
	assert.Equal(t, "processing", results[3].Status.Status)
}

func TestPollerStopIsIdempotent(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
		json.NewEncoder(w).Encode(UploadStatus{FileID: "f1", Status: "processing"})
	})
	defer close(block)

	p := NewStatusPoller(c, "f1", WithPollInterval(5*time.Millisecond))
	ch := p.Start(context.Background())

	p.Stop()
	p.Stop() // second call must not panic

	deadline := time.After(2 * time.Second)
	for {
		select {
		case r, ok := <-ch:
			if !ok {
				return
			}
			if r.Final {
				assert.Error(t, r.Err)
			}
		case <-deadline:
			t.Fatal("poller did not shut down after Stop")
		}
	}
}

func TestPollerReportsFailedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(UploadStatus{FileID: "f1", Status: StatusFailed, Message: "unreadable PDF"})
	})

	p := NewStatusPoller(c, "f1", WithPollInterval(5*time.Millisecond))
	results := collectResults(p.Start(context.Background()))

	require.Len(t, results, 1)
	assert.True(t, results[0].Final)
	assert.Equal(t, StatusFailed, results[0].Status.Status)
}
