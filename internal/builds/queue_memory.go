package builds

import (
	"context"
	"sync"
)

// MemoryQueue is an in-memory Queue for tests. It mirrors the redis list's
// newest-first read order and supports failure injection per operation.
type MemoryQueue struct {
	mu      sync.Mutex
	entries []string

	AppendErr error
	ReadErr   error
	DeleteErr error
}

// NewMemoryQueue returns an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Append(_ context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.AppendErr != nil {
		return q.AppendErr
	}
	// Prepend to match LPush ordering.
	q.entries = append([]string{string(payload)}, q.entries...)
	return nil
}

func (q *MemoryQueue) ReadAll(_ context.Context) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.ReadErr != nil {
		return nil, q.ReadErr
	}
	out := make([]string, len(q.entries))
	copy(out, q.entries)
	return out, nil
}

func (q *MemoryQueue) DeleteAll(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.DeleteErr != nil {
		return q.DeleteErr
	}
	q.entries = nil
	return nil
}

// Len reports how many entries remain queued.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
