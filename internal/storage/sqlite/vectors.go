package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

// VectorRepo stores per-user message embeddings and answers filtered
// nearest-neighbor queries. Similarity is cosine, computed in-process
// over the user's points; corpora here are per-user and small, so a
// linear scan beats maintaining an index.
type VectorRepo struct {
	db *sql.DB
}

func NewVectorRepo(db *sql.DB) *VectorRepo {
	return &VectorRepo{db: db}
}

func (r *VectorRepo) Upsert(ctx context.Context, userID string, msg core.Message, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("refusing to upsert empty embedding for message %s", msg.ID)
	}

	vecBlob, err := serializeVector(embedding)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vectors (id, user_id, session_id, role, content, ts, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			role       = excluded.role,
			content    = excluded.content,
			ts         = excluded.ts,
			embedding  = excluded.embedding
	`
	_, err = r.db.ExecContext(ctx, query,
		msg.ID, userID, msg.SessionID, msg.Role, msg.Content, msg.Timestamp, vecBlob,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vector point: %w", err)
	}
	return nil
}

func (r *VectorRepo) Search(ctx context.Context, userID string, vector []float32, limit int, threshold float64) ([]core.Message, error) {
	query := `SELECT id, session_id, role, content, ts, embedding FROM vectors WHERE user_id = ?`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var candidates []core.Message
	for rows.Next() {
		var msg core.Message
		var blob []byte
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.Timestamp, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan vector point: %w", err)
		}

		embedding, err := deserializeVector(blob)
		if err != nil {
			// A corrupt point should not sink the whole search.
			log.FromCtx(ctx).Warn().Err(err).Str("id", msg.ID).Msg("skipping corrupt vector point")
			continue
		}

		score := cosineSimilarity(vector, embedding)
		if score < threshold {
			continue
		}

		msg.Source = core.SourceRetrieved
		msg.RelevanceScore = score
		candidates = append(candidates, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rank descending by score, ties broken by more recent timestamp.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].RelevanceScore != candidates[j].RelevanceScore {
			return candidates[i].RelevanceScore > candidates[j].RelevanceScore
		}
		return candidates[i].Timestamp > candidates[j].Timestamp
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (r *VectorRepo) Purge(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vectors WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to purge vectors: %w", err)
	}
	return nil
}
