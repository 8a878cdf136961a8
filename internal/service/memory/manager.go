package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/tokens"
	"github.com/sandevgo/recallbot/pkg/log"
	"github.com/sandevgo/recallbot/pkg/retry"
)

// storeRetryConfig bounds per-request store retries. Much tighter than
// the default retrier: a turn is latency-sensitive and the backends have
// sub-10ms latency budgets when healthy.
var storeRetryConfig = &retry.Config{
	MaxRetries:    2,
	BackoffFactor: 2,
	InitialDelay:  50 * time.Millisecond,
	MaxDelay:      500 * time.Millisecond,
	Jitter:        20 * time.Millisecond,
}

// Manager sequences the memory flow of one turn: read-context (window
// fetch and retrieval in parallel, then synthesis), and the asynchronous
// write-back once the response has been produced.
type Manager struct {
	window    core.WindowRepository
	vectors   core.VectorRepository
	embedder  core.Embedder
	retriever *Retriever
	synth     *Synthesizer
	retrier   *retry.Retrier
}

func NewManager(
	cfg *config.MemoryConfig,
	window core.WindowRepository,
	vectors core.VectorRepository,
	embedder core.Embedder,
	estimator tokens.Estimator,
) *Manager {
	return &Manager{
		window:    window,
		vectors:   vectors,
		embedder:  embedder,
		retriever: NewRetriever(cfg, embedder, vectors),
		synth:     NewSynthesizer(estimator, cfg.MaxContextTokens),
		retrier:   retry.NewRetrier(storeRetryConfig),
	}
}

// NewUserMessage stamps a just-received user input as a message. The id
// is fresh and the timestamp is taken now, so it orders after everything
// already stored for the user.
func (m *Manager) NewUserMessage(sessionID, content string) core.Message {
	return core.Message{
		ID:        uuid.NewString(),
		Role:      core.RoleUser,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		SessionID: sessionID,
		Source:    core.SourceWindow,
	}
}

// NewAssistantMessage stamps an assistant reply for write-back.
func (m *Manager) NewAssistantMessage(sessionID, content string) core.Message {
	return core.Message{
		ID:        uuid.NewString(),
		Role:      core.RoleAssistant,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		SessionID: sessionID,
		Source:    core.SourceWindow,
	}
}

// BuildContext assembles the synthesized context for one turn. The window
// fetch and the relevance retrieval are independent I/O and run
// concurrently. Retrieval failure degrades to an empty candidate set;
// window failure after retries is fatal and wrapped in
// core.ErrWindowUnavailable, since the window is the primary memory.
func (m *Manager) BuildContext(ctx context.Context, userID string, currentQuery core.Message) (core.SynthesizedContext, error) {
	retrievedCh := make(chan []core.Message, 1)
	go func() {
		retrievedCh <- m.retriever.Retrieve(ctx, userID, currentQuery.Content)
	}()

	var window []core.Message
	err := m.retrier.Do(ctx, func() error {
		var werr error
		window, werr = m.window.Window(ctx, userID)
		return werr
	})
	if err != nil {
		return core.SynthesizedContext{}, fmt.Errorf("%w: %v", core.ErrWindowUnavailable, err)
	}

	retrieved := <-retrievedCh

	synth := m.synth.Synthesize(window, retrieved, currentQuery)
	log.FromCtx(ctx).Debug().
		Str("user_id", userID).
		Int("window", len(window)).
		Int("retrieved", len(retrieved)).
		Int("selected", len(synth.Messages)).
		Int("token_cost", synth.TokenCost).
		Msg("synthesized context")
	return synth, nil
}

// CommitTurn persists the turn's messages after the response has been
// delivered: window appends first (retried; exhaustion flags the turn
// unsaved rather than surfacing to the chat user), then best-effort
// vector upserts. The returned Commit makes completion inspectable
// without blocking the caller.
func (m *Manager) CommitTurn(ctx context.Context, userID string, msgs ...core.Message) *Commit {
	// The turn's request context may be cancelled as soon as the response
	// is sent; durability must not depend on it.
	ctx = context.WithoutCancel(ctx)
	logger := log.FromCtx(ctx)
	commit := newCommit()

	go func() {
		defer commit.finish()

		for _, msg := range msgs {
			msg.Source = core.SourceWindow
			err := m.retrier.Do(ctx, func() error {
				return m.window.Append(ctx, userID, msg)
			})
			if err != nil {
				logger.Error().Err(err).
					Str("user_id", userID).
					Str("msg_id", msg.ID).
					Msg("window append failed after retries, turn left unsaved")
				commit.record(err, true)
			}
		}

		for _, msg := range msgs {
			if msg.Content == "" {
				continue
			}

			vec, err := m.embedder.Embed(ctx, msg.Content)
			if err != nil {
				logger.Warn().Err(err).Str("msg_id", msg.ID).Msg("failed to embed message for indexing")
				commit.record(err, false)
				continue
			}

			err = m.retrier.Do(ctx, func() error {
				return m.vectors.Upsert(ctx, userID, msg, vec)
			})
			if err != nil {
				logger.Error().Err(err).Str("msg_id", msg.ID).Msg("vector upsert failed after retries")
				commit.record(err, false)
			}
		}
	}()

	return commit
}

// Reset wipes a user's memory on explicit request: the recent-turn window
// and every indexed point. Not part of normal turn flow.
func (m *Manager) Reset(ctx context.Context, userID string) error {
	if err := m.window.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear window: %w", err)
	}
	if err := m.vectors.Purge(ctx, userID); err != nil {
		return fmt.Errorf("failed to purge vectors: %w", err)
	}
	log.FromCtx(ctx).Info().Str("user_id", userID).Msg("memory reset")
	return nil
}
