package querycache_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/cache"
)

type countingMetrics struct {
	hits, misses int
}

func (m *countingMetrics) CacheResult(_ string, hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}
func (m *countingMetrics) RealtimeEvent(string, string) {}
func (m *countingMetrics) OrderStatusUpdated(string)    {}
func (m *countingMetrics) JobRun(string, error)         {}

type payload struct {
	Total int `json:"total"`
}

func newCache(t *testing.T) (*querycache.Cache, *countingMetrics) {
	t.Helper()
	mem := cache.NewMemory(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })
	m := &countingMetrics{}
	return querycache.New(mem, m, zerolog.Nop()), m
}

func TestKey(t *testing.T) {
	assert.Equal(t, "kirana:s1:dashboard", querycache.Key("s1", querycache.Dashboard, nil))
	assert.Equal(t, "kirana:s1:dashboard", querycache.Key("s1", querycache.Dashboard, ""))

	a := querycache.Key("s1", querycache.Orders, map[string]string{"status": "pending"})
	b := querycache.Key("s1", querycache.Orders, map[string]string{"status": "pending"})
	c := querycache.Key("s1", querycache.Orders, map[string]string{"status": "delivered"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "kirana:s1:orders:")
}

func TestGetOrLoad_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	c, m := newCache(t)
	calls := 0
	load := func(context.Context) (payload, error) {
		calls++
		return payload{Total: calls}, nil
	}

	v, err := querycache.GetOrLoad(ctx, c, "s1", querycache.Orders, "p", load)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Total)

	v, err = querycache.GetOrLoad(ctx, c, "s1", querycache.Orders, "p", load)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, m.hits)
	assert.Equal(t, 1, m.misses)

	require.NoError(t, c.Invalidate(ctx, "s1", querycache.Orders))
	v, err = querycache.GetOrLoad(ctx, c, "s1", querycache.Orders, "p", load)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Total)
}

func TestInvalidate_DoesNotTouchSimilarNames(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	calls := 0
	load := func(context.Context) (payload, error) {
		calls++
		return payload{Total: calls}, nil
	}

	_, err := querycache.GetOrLoad(ctx, c, "s1", querycache.Customers, nil, load)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, "s1", querycache.Customer))

	_, err = querycache.GetOrLoad(ctx, c, "s1", querycache.Customers, nil, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "customers no debe invalidarse al invalidar customer")
}

func TestGetOrLoad_LoadErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	boom := errors.New("boom")

	_, err := querycache.GetOrLoad(ctx, c, "s1", querycache.Dashboard, nil, func(context.Context) (payload, error) {
		return payload{}, boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := querycache.GetOrLoad(ctx, c, "s1", querycache.Dashboard, nil, func(context.Context) (payload, error) {
		return payload{Total: 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v.Total)
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	calls := 0
	load := func(context.Context) (payload, error) {
		calls++
		return payload{Total: calls}, nil
	}
	_, _ = querycache.GetOrLoad(ctx, c, "s1", querycache.Notifications, "u1", load)
	_, _ = querycache.GetOrLoad(ctx, c, "s1", querycache.Notifications, "u2", load)
	require.NoError(t, c.Forget(ctx, "s1", querycache.Notifications, "u1"))

	_, _ = querycache.GetOrLoad(ctx, c, "s1", querycache.Notifications, "u1", load)
	_, _ = querycache.GetOrLoad(ctx, c, "s1", querycache.Notifications, "u2", load)
	assert.Equal(t, 3, calls)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"orders", "dashboard"}, querycache.Names(querycache.Orders, querycache.Dashboard))
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
func (failingBackend) Delete(context.Context, ...string) error {
	return errors.New("redis caído")
}
func (failingBackend) DeletePrefix(context.Context, string) error {
	return errors.New("redis caído")
}
func (failingBackend) CompareAndDelete(context.Context, string, []byte) (bool, error) {
	return false, nil
}

func TestEvict_RegistraFalloSinPropagarlo(t *testing.T) {
	var buf bytes.Buffer
	c := querycache.New(failingBackend{}, &countingMetrics{}, zerolog.New(&buf))

	err := c.Invalidate(context.Background(), "s1", querycache.Orders)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis caído")

	c.Evict(context.Background(), "s1", querycache.Orders, querycache.Dashboard)
	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "cache: invalidación fallida")
	assert.Contains(t, out, `"store_id":"s1"`)
	assert.Contains(t, out, "redis caído")
}
