package core

import "context"

// WindowRepository is the bounded recent-turn store. Each user owns one
// window; ordering is newest-first and capacity is fixed, so Append past
// capacity evicts from the tail (strict FIFO by recency).
type WindowRepository interface {
	// Append inserts msg at the head of the user's window and trims the
	// tail back to capacity. Not idempotent: identical content appends
	// twice.
	Append(ctx context.Context, userID string, msg Message) error
	// Window returns the user's window newest-first. An unknown user
	// yields an empty slice, not an error.
	Window(ctx context.Context, userID string) ([]Message, error)
	// Clear drops every window entry for the user.
	Clear(ctx context.Context, userID string) error
}

// VectorRepository is the similarity index over a user's historical turns.
type VectorRepository interface {
	// Upsert stores the message and its embedding under the user's scope,
	// replacing any point with the same message id.
	Upsert(ctx context.Context, userID string, msg Message, embedding []float32) error
	// Search returns up to limit messages scoped to the user, descending
	// by relevance score, every score >= threshold. Fewer than limit
	// results is not an error.
	Search(ctx context.Context, userID string, vector []float32, limit int, threshold float64) ([]Message, error)
	// Purge drops every indexed point for the user.
	Purge(ctx context.Context, userID string) error
}
