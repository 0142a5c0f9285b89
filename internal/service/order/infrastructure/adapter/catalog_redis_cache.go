package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/metrics"
	"eshop/internal/service/order/domain"
	"eshop/internal/service/order/domain/port"
)

// CatalogRedisCache 是 port.CatalogQuery 的读穿缓存装饰器。
// Redis 出错时直接回源数据库，缓存永远不会导致下单失败。
// 已缓存的商品在目录中删除后，最多一个 TTL 内仍会被当作存在，这段时间里不会产生 NotFoundError。
type CatalogRedisCache struct {
	next   port.CatalogQuery
	client goredis.Cmdable
	ttl    time.Duration
}

func NewCatalogRedisCache(next port.CatalogQuery, client goredis.Cmdable, ttl time.Duration) *CatalogRedisCache {
	return &CatalogRedisCache{next: next, client: client, ttl: ttl}
}

func catalogFactKey(id int64) string {
	return fmt.Sprintf("order-service:catalog-fact:%d", id)
}

func (c *CatalogRedisCache) ListByIDs(ctx context.Context, ids []int64) ([]domain.CatalogFact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = catalogFactKey(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		metrics.CatalogCache.WithLabelValues("error").Inc()
		logger.Ctx(ctx).Warn().Err(err).Msg("Catalog cache unavailable, falling back to database")
		return c.next.ListByIDs(ctx, ids)
	}

	facts := make([]domain.CatalogFact, 0, len(ids))
	var misses []int64
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			misses = append(misses, ids[i])
			continue
		}
		var fact domain.CatalogFact
		if err := json.Unmarshal([]byte(raw), &fact); err != nil {
			misses = append(misses, ids[i])
			continue
		}
		facts = append(facts, fact)
	}
	metrics.CatalogCache.WithLabelValues("hit").Add(float64(len(facts)))
	if len(misses) == 0 {
		return facts, nil
	}
	metrics.CatalogCache.WithLabelValues("miss").Add(float64(len(misses)))

	loaded, err := c.next.ListByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	c.store(ctx, loaded)
	return append(facts, loaded...), nil
}

func (c *CatalogRedisCache) store(ctx context.Context, facts []domain.CatalogFact) {
	if len(facts) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for _, fact := range facts {
		raw, err := json.Marshal(fact)
		if err != nil {
			continue
		}
		pipe.Set(ctx, catalogFactKey(fact.ID), raw, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("Failed to populate catalog cache")
	}
}

var _ port.CatalogQuery = (*CatalogRedisCache)(nil)
