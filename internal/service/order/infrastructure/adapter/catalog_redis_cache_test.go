package adapter

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshop/internal/service/order/domain"
)

type countingCatalog struct {
	facts map[int64]domain.CatalogFact
	calls [][]int64
}

func (c *countingCatalog) ListByIDs(_ context.Context, ids []int64) ([]domain.CatalogFact, error) {
	c.calls = append(c.calls, append([]int64(nil), ids...))
	var out []domain.CatalogFact
	for _, id := range ids {
		if f, ok := c.facts[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func newCountingCatalog() *countingCatalog {
	return &countingCatalog{facts: map[int64]domain.CatalogFact{
		1: {ID: 1, Name: "Widget", PictureURI: "1.png"},
		2: {ID: 2, Name: "Gadget", PictureURI: "2.png"},
	}}
}

func TestCatalogRedisCache_FallsBackWhenRedisIsDown(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()

	next := newCountingCatalog()
	facts, err := NewCatalogRedisCache(next, client, time.Minute).ListByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, facts, 2)
	assert.Len(t, next.calls, 1)
}

func TestCatalogRedisCache_ReadThrough(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis integration test")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	client.Del(ctx, catalogFactKey(1), catalogFactKey(2), catalogFactKey(404))

	next := newCountingCatalog()
	cache := NewCatalogRedisCache(next, client, time.Minute)

	facts, err := cache.ListByIDs(ctx, []int64{1, 2, 404})
	require.NoError(t, err)
	assert.Len(t, facts, 2)
	require.Len(t, next.calls, 1)

	facts, err = cache.ListByIDs(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.CatalogFact{next.facts[1], next.facts[2]}, facts)
	assert.Len(t, next.calls, 1, "second lookup is served from redis")

	ttl, err := client.TTL(ctx, catalogFactKey(1)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// 不存在的商品不会被缓存，每次都回源
	_, err = cache.ListByIDs(ctx, []int64{404})
	require.NoError(t, err)
	assert.Equal(t, []int64{404}, next.calls[len(next.calls)-1])
}

func TestCatalogRedisCache_DeletedItemVisibleUntilTTL(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis integration test")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	client.Del(ctx, catalogFactKey(1))

	next := newCountingCatalog()
	cache := NewCatalogRedisCache(next, client, time.Second)
	_, err := cache.ListByIDs(ctx, []int64{1})
	require.NoError(t, err)

	delete(next.facts, 1)
	facts, err := cache.ListByIDs(ctx, []int64{1})
	require.NoError(t, err)
	assert.Len(t, facts, 1, "a cached fact outlives its catalog row within the TTL")

	require.Eventually(t, func() bool {
		facts, err := cache.ListByIDs(ctx, []int64{1})
		return err == nil && len(facts) == 0
	}, 3*time.Second, 100*time.Millisecond, "after the TTL the deletion is visible")
}
