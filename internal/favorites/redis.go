package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/kzhou/cryptobubbles/internal/config"
	"github.com/kzhou/cryptobubbles/internal/model"
)

// redisKey is the hash holding all favorites, one field per symbol with a
// JSON-encoded record as the value.
const redisKey = "favorites"

// Redis stores favorites in a single Redis hash.
type Redis struct {
	client *redis.Client
}

// NewRedis builds a Redis backend and verifies connectivity with a ping.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) List(ctx context.Context) ([]model.Favorite, error) {
	vals, err := r.client.HGetAll(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("reading favorites hash: %w", err)
	}

	out := make([]model.Favorite, 0, len(vals))
	for field, raw := range vals {
		var f model.Favorite
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			// A malformed field should not hide the rest of the hash.
			continue
		}
		if f.Symbol == "" {
			f.Symbol = field
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.After(out[j].AddedAt)
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out, nil
}

func (r *Redis) Upsert(ctx context.Context, fav model.Favorite) error {
	raw, err := json.Marshal(fav)
	if err != nil {
		return fmt.Errorf("encoding favorite %s: %w", fav.Symbol, err)
	}
	if err := r.client.HSet(ctx, redisKey, fav.Symbol, raw).Err(); err != nil {
		return fmt.Errorf("writing favorite %s: %w", fav.Symbol, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, symbol string) error {
	if err := r.client.HDel(ctx, redisKey, symbol).Err(); err != nil {
		return fmt.Errorf("deleting favorite %s: %w", symbol, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
