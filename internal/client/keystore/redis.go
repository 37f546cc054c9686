package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/cinepass/internal/client/tokens"
)

const DefaultRedisPrefix = "cinepass:"

// Redis keeps the pair as plain JSON under <prefix><key>.
type Redis struct {
	client redis.Cmdable
	key    string
}

var _ tokens.Backend = (*Redis)(nil)

func NewRedis(client redis.Cmdable, prefix, key string) *Redis {
	return &Redis{client: client, key: prefix + key}
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Read(ctx context.Context) (*tokens.Pair, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting credentials: %w", err)
	}

	var p tokens.Pair
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling credentials: %w", err)
	}
	return &p, nil
}

func (r *Redis) Write(ctx context.Context, p tokens.Pair) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

func (r *Redis) Erase(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}
