// Package corrections is the client-side library for the correction
// workflow: a local queue of confirmed-but-unsubmitted edits, a typed HTTP
// client for the corrections API, and a poller that follows a re-processing
// run to completion.
package corrections

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paddockvision/paddock-backend/internal/domain"
)

// Queue accumulates pending corrections before submission. It is safe for
// concurrent use: a UI event loop adds entries while a poller goroutine
// clears them. Entries are strictly scoped by chunk id and kept in
// insertion order. The queue does no I/O.
type Queue struct {
	mu      sync.Mutex
	entries []domain.PendingCorrection
}

// NewQueue creates an empty correction queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add appends a confirmed correction for a chunk and returns the queued
// entry with its assigned id.
func (q *Queue) Add(chunkID string, payload domain.CorrectionPayload) domain.PendingCorrection {
	entry := domain.PendingCorrection{
		ID:        uuid.New(),
		ChunkID:   chunkID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	q.mu.Lock()
	q.entries = append(q.entries, entry)
	q.mu.Unlock()

	return entry
}

// Remove deletes the entry with the given id and reports whether it existed.
func (q *Queue) Remove(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every entry regardless of chunk.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.entries = nil
	q.mu.Unlock()
}

// ClearForChunk removes every entry for the given chunk and returns the
// number removed. Called after a successful submission.
func (q *Queue) ClearForChunk(chunkID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.entries[:0]
	removed := 0
	for _, e := range q.entries {
		if e.ChunkID == chunkID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept

	return removed
}

// Count returns the total number of queued entries.
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// CountForChunk returns the number of queued entries for a chunk.
func (q *Queue) CountForChunk(chunkID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, e := range q.entries {
		if e.ChunkID == chunkID {
			n++
		}
	}
	return n
}

// ListForChunk returns the entries for a chunk in insertion order. The
// returned slice is a copy; mutating it does not affect the queue.
func (q *Queue) ListForChunk(chunkID string) []domain.PendingCorrection {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]domain.PendingCorrection, 0, len(q.entries))
	for _, e := range q.entries {
		if e.ChunkID == chunkID {
			out = append(out, e)
		}
	}
	return out
}
