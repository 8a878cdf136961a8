package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

// Embedder maps text to a fixed-dimension vector. Treated as a pure but
// slow external function; failures degrade retrieval, never the turn.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
