package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
)

const keyPrefix = "tileboard"

// maxTxRetries bounds optimistic-lock retries in Update.
const maxTxRetries = 5

// RedisConfig holds Redis connection and expiry settings.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string
	// TTL is refreshed on every write; zero keeps sessions forever.
	TTL time.Duration
}

// DefaultRedisConfig returns sensible defaults for local development.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{URL: "redis://localhost:6379/0", TTL: 24 * time.Hour}
}

// Redis is a Store backed by Redis. Boards are stored as JSON-encoded
// game.State values; Update uses WATCH/MULTI so concurrent intents against
// the same session from several server processes are serialized.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*Redis)(nil)

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisWithClient(client, cfg.TTL), nil
}

// NewRedisWithClient wraps an existing client (used by tests).
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Close closes the Redis connection.
func (r *Redis) Close() error { return r.client.Close() }

func gameKey(id string) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

func (r *Redis) Save(ctx context.Context, b *game.Board) error {
	data, err := json.Marshal(b.State())
	if err != nil {
		return err
	}
	return r.client.Set(ctx, gameKey(b.ID()), data, r.ttl).Err()
}

func (r *Redis) Get(ctx context.Context, id string) (*game.Board, error) {
	return load(ctx, r.client, id)
}

func (r *Redis) Update(ctx context.Context, id string, fn func(b *game.Board) error) (*game.Board, error) {
	key := gameKey(id)
	var out *game.Board

	txf := func(tx *redis.Tx) error {
		b, err := load(ctx, tx, id)
		if err != nil {
			return err
		}
		out = b
		if err := fn(b); err != nil {
			return err
		}
		data, err := json.Marshal(b.State())
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return out, err
	}
	return nil, fmt.Errorf("update %s: %w", id, redis.TxFailedErr)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// load reads and restores a board.
func load(ctx context.Context, c getter, id string) (*game.Board, error) {
	data, err := c.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var st game.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return game.Restore(st)
}
