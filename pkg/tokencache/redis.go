package tokencache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/setlist/pkg/decode"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces token keys in Redis.
const DefaultPrefix = "setlist:token:"

// Redis is a Cache backed by Redis. Keys expire with their tokens.
type Redis struct {
	client *backend.Client
	prefix string
	now    func() time.Time
}

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// WithRedisClock replaces time.Now when computing TTLs.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(r *Redis) {
		r.now = now
	}
}

// NewRedis connects to the Redis server at address.
func NewRedis(address, password string, db int, opts ...RedisOption) *Redis {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisFromClient(client, opts...)
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *backend.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) (Token, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return Token{}, ErrMiss
		}
		return Token{}, fmt.Errorf("failed to get token from redis: %w", err)
	}

	tok, err := decode.JSON[Token](TokenSchema, val)
	if err != nil {
		return Token{}, fmt.Errorf("stored token %q: %w", key, err)
	}
	if !tok.Valid(r.now()) {
		return Token{}, ErrMiss
	}
	return tok, nil
}

func (r *Redis) Set(ctx context.Context, key string, tok Token) error {
	ttl := tok.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return r.Delete(ctx, key)
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save token to redis: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
