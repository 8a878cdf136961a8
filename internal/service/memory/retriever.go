package memory

import (
	"context"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
	"github.com/sandevgo/recallbot/pkg/retry"
)

// Retriever surfaces relevant-but-old turns from the vector index.
// Retrieval is best-effort: embedding or search failures degrade to an
// empty candidate set, logged and never escalated. Search is store I/O
// and gets the same bounded retries as the other store operations;
// embedding failure fails the retrieval for this request immediately.
type Retriever struct {
	embedder  core.Embedder
	vectors   core.VectorRepository
	retrier   *retry.Retrier
	limit     int
	threshold float64
}

func NewRetriever(cfg *config.MemoryConfig, embedder core.Embedder, vectors core.VectorRepository) *Retriever {
	return &Retriever{
		embedder:  embedder,
		vectors:   vectors,
		retrier:   retry.NewRetrier(storeRetryConfig),
		limit:     cfg.RetrievalLimit,
		threshold: cfg.RelevanceThreshold,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, userID, query string) []core.Message {
	logger := log.FromCtx(ctx)

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to embed query, skipping retrieval")
		return nil
	}

	var candidates []core.Message
	err = r.retrier.Do(ctx, func() error {
		var serr error
		candidates, serr = r.vectors.Search(ctx, userID, vec, r.limit, r.threshold)
		return serr
	})
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("vector search failed after retries")
		return nil
	}

	return candidates
}
