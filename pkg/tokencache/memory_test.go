package tokencache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/setlist/pkg/tokencache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestToken_Valid(t *testing.T) {
	now := newClock().Now()

	assert.True(t, tokencache.Token{AccessToken: "a", ExpiresAt: now.Add(time.Second)}.Valid(now))
	assert.False(t, tokencache.Token{AccessToken: "a", ExpiresAt: now}.Valid(now), "expiry is exclusive")
	assert.False(t, tokencache.Token{ExpiresAt: now.Add(time.Hour)}.Valid(now))
}

func TestMemory_Expiry(t *testing.T) {
	clk := newClock()
	c := tokencache.NewMemory(tokencache.WithClock(clk.Now))
	ctx := context.Background()

	tok := tokencache.Token{AccessToken: "abc", ExpiresAt: clk.Now().Add(time.Minute)}
	require.NoError(t, c.Set(ctx, "user-1", tok))

	got, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, tok, got)

	clk.Advance(time.Minute)
	_, err = c.Get(ctx, "user-1")
	assert.ErrorIs(t, err, tokencache.ErrMiss)
	assert.Equal(t, 0, c.Len(), "expired entry should be dropped on read")
}

func TestMemory_Delete(t *testing.T) {
	clk := newClock()
	c := tokencache.NewMemory(tokencache.WithClock(clk.Now))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", tokencache.Token{AccessToken: "abc", ExpiresAt: clk.Now().Add(time.Hour)}))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "missing"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, tokencache.ErrMiss)
}

func TestMemory_Concurrent(t *testing.T) {
	c := tokencache.NewMemory()
	ctx := context.Background()
	tok := tokencache.Token{AccessToken: "abc", ExpiresAt: time.Now().Add(time.Hour)}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "shared", tok)
			_, _ = c.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	got, err := c.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.AccessToken)
}

func TestGetOrFetch(t *testing.T) {
	clk := newClock()
	c := tokencache.NewMemory(tokencache.WithClock(clk.Now))
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (tokencache.Token, error) {
		calls++
		return tokencache.Token{AccessToken: "fresh", ExpiresAt: clk.Now().Add(time.Minute)}, nil
	}

	for i := 0; i < 3; i++ {
		tok, err := tokencache.GetOrFetch(ctx, c, "user-1", fetch)
		require.NoError(t, err)
		assert.Equal(t, "fresh", tok.AccessToken)
	}
	assert.Equal(t, 1, calls)

	clk.Advance(2 * time.Minute)
	_, err := tokencache.GetOrFetch(ctx, c, "user-1", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrFetch_FetchError(t *testing.T) {
	c := tokencache.NewMemory()
	boom := errors.New("provider down")

	_, err := tokencache.GetOrFetch(context.Background(), c, "k", func(context.Context) (tokencache.Token, error) {
		return tokencache.Token{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestDecodeToken(t *testing.T) {
	tok, err := tokencache.DecodeToken(map[string]any{
		"access_token": "abc",
		"expires_at":   "2026-10-19T13:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.True(t, tok.ExpiresAt.Equal(time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)))

	_, err = tokencache.DecodeToken(map[string]any{"access_token": "", "expires_at": "2026-10-19T13:00:00Z"})
	assert.Error(t, err)
}
