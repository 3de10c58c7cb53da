// Package tokencache keeps OAuth access tokens until they expire.
//
// Two backends are provided: Memory for a single process and Redis for a
// shared cache. Values read back from Redis are decoded like any other
// untrusted input.
package tokencache

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/schema"
)

// ErrMiss is returned when a key is absent or its token has expired.
var ErrMiss = errors.New("tokencache: miss")

// Token is a cached access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the token is still usable at now.
func (t Token) Valid(now time.Time) bool {
	return t.AccessToken != "" && t.ExpiresAt.After(now)
}

// TokenSchema describes the stored form of a Token.
var TokenSchema = schema.Object(
	schema.Req("access_token", schema.Constrained(schema.String(), schema.NonEmpty("accessTokenRequired"))),
	schema.Req("expires_at", schema.Time()),
)

// DecodeToken decodes an untrusted token record.
func DecodeToken(v any) (Token, error) {
	return decode.UnknownSync[Token](TokenSchema, v)
}

// Cache stores tokens by key.
type Cache interface {
	// Get returns ErrMiss when the key is absent or expired.
	Get(ctx context.Context, key string) (Token, error)
	Set(ctx context.Context, key string, tok Token) error
	Delete(ctx context.Context, key string) error
}

// GetOrFetch returns the cached token for key, calling fetch and storing its
// result on a miss.
func GetOrFetch(ctx context.Context, c Cache, key string, fetch func(context.Context) (Token, error)) (Token, error) {
	tok, err := c.Get(ctx, key)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, ErrMiss) {
		return Token{}, err
	}

	tok, err = fetch(ctx)
	if err != nil {
		return Token{}, err
	}
	if err := c.Set(ctx, key, tok); err != nil {
		return Token{}, err
	}
	return tok, nil
}
