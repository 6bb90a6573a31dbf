package mailer

import (
	"context"
	"sync"
)

// Recording is an in-memory Mailer for tests. It records every accepted
// message and can be primed to fail.
type Recording struct {
	mu   sync.Mutex
	sent []Message

	// Err, when set, is returned by Send without recording the message.
	Err error
}

// Send records the message unless Err is set.
func (r *Recording) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of every recorded message.
func (r *Recording) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}
