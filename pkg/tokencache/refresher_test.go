package tokencache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/setlist/pkg/tokencache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresher_FetchesOncePerKey(t *testing.T) {
	clk := newClock()
	r := tokencache.NewRefresher(tokencache.NewMemory(tokencache.WithClock(clk.Now)))
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(context.Context) (tokencache.Token, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return tokencache.Token{AccessToken: "fresh", ExpiresAt: clk.Now().Add(time.Minute)}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := r.Token(ctx, "user-1", fetch)
			assert.NoError(t, err)
			assert.Equal(t, "fresh", tok.AccessToken)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, r.Pending(), "idle lock entries should be dropped")
}

func TestRefresher_WithRedisLocker(t *testing.T) {
	clk := newClock()
	c, mr := newRedis(t, clk)
	r := tokencache.NewRefresher(c, tokencache.WithLocker(c.Locker(), time.Second))
	ctx := context.Background()

	tok, err := r.Token(ctx, "user-1", func(context.Context) (tokencache.Token, error) {
		assert.True(t, mr.Exists("setlist:token:lock:user-1"), "lock should be held during fetch")
		return tokencache.Token{AccessToken: "fresh", ExpiresAt: clk.Now().Add(time.Minute)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)
	assert.False(t, mr.Exists("setlist:token:lock:user-1"), "lock should be released")
}

func TestRedisLocker_Contention(t *testing.T) {
	c, _ := newRedis(t, newClock())
	locker := c.Locker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	ctxTimeout, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctxTimeout, "shared", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	assert.NoError(t, unlock2(ctx))
}
