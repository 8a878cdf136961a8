package memstore

import (
	"context"
	"sync"

	"github.com/sandevgo/recallbot/internal/core"
)

// WindowRepo is an in-process window store with the same eviction
// semantics as the Redis backend. Used for local CLI mode and tests.
type WindowRepo struct {
	mu       sync.Mutex
	capacity int
	windows  map[string][]core.Message // newest-first per user
}

func NewWindowRepo(capacity int) *WindowRepo {
	return &WindowRepo{
		capacity: capacity,
		windows:  make(map[string][]core.Message),
	}
}

func (r *WindowRepo) Append(ctx context.Context, userID string, msg core.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	window := append([]core.Message{msg}, r.windows[userID]...)
	if len(window) > r.capacity {
		window = window[:r.capacity]
	}
	r.windows[userID] = window
	return nil
}

func (r *WindowRepo) Window(ctx context.Context, userID string) ([]core.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	window := r.windows[userID]
	out := make([]core.Message, len(window))
	copy(out, window)
	for i := range out {
		out[i].Source = core.SourceWindow
	}
	return out, nil
}

func (r *WindowRepo) Clear(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.windows, userID)
	return nil
}
