package memory

import (
	"context"
	"errors"
	"sync"
)

// Commit is the receipt for one asynchronous write-back. The caller never
// blocks on it during a turn, but completion and failure state remain
// inspectable instead of vanishing into an unobserved goroutine.
type Commit struct {
	done chan struct{}

	mu      sync.Mutex
	unsaved bool
	errs    []error
}

func newCommit() *Commit {
	return &Commit{done: make(chan struct{})}
}

// Done is closed once every write-back operation has finished or given up.
func (c *Commit) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the write-back completes or ctx expires.
func (c *Commit) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return c.Err()
	}
}

// Unsaved reports whether a window append exhausted its retries, leaving
// the turn delivered to the user but missing from the recent-turn window.
func (c *Commit) Unsaved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsaved
}

func (c *Commit) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.errs...)
}

func (c *Commit) record(err error, unsaved bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
	if unsaved {
		c.unsaved = true
	}
}

func (c *Commit) finish() {
	close(c.done)
}
