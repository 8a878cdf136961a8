package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/core"
)

const windowKeyPrefix = "recall:window:"

// WindowRepo keeps each user's recent-turn window in a Redis list,
// newest-first. Append is LPUSH+LTRIM so the backend itself enforces the
// capacity invariant atomically per key.
type WindowRepo struct {
	client   *goredis.Client
	capacity int
}

func NewWindowRepo(ctx context.Context, cfg *config.RedisConfig, capacity int) (*WindowRepo, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &WindowRepo{client: client, capacity: capacity}, nil
}

// encodeMessage renders one window entry as the JSON stored in the list.
func encodeMessage(msg core.Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return data, nil
}

// decodeMessage parses a stored entry and stamps its provenance; whatever
// source the entry carried when written, reading it from the window makes
// it a window message.
func decodeMessage(data []byte) (core.Message, error) {
	var msg core.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return core.Message{}, fmt.Errorf("failed to unmarshal window entry: %w", err)
	}
	msg.Source = core.SourceWindow
	return msg, nil
}

func (r *WindowRepo) Append(ctx context.Context, userID string, msg core.Message) error {
	data, err := encodeMessage(msg)
	if err != nil {
		return err
	}

	key := windowKeyPrefix + userID
	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, int64(r.capacity-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append window entry: %w", err)
	}
	return nil
}

func (r *WindowRepo) Window(ctx context.Context, userID string) ([]core.Message, error) {
	vals, err := r.client.LRange(ctx, windowKeyPrefix+userID, 0, int64(r.capacity-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read window: %w", err)
	}

	messages := make([]core.Message, 0, len(vals))
	for _, v := range vals {
		msg, err := decodeMessage([]byte(v))
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *WindowRepo) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, windowKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to clear window: %w", err)
	}
	return nil
}

func (r *WindowRepo) Close() error {
	return r.client.Close()
}
