package application

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"eshop/internal/service/order/domain"
	"eshop/internal/service/order/domain/port"
)

// CatalogSnapshotResolver 为下单冻结商品快照：每个请求的 ID 必须恰好对应一个目录商品。
type CatalogSnapshotResolver struct {
	catalog port.CatalogQuery
}

func NewCatalogSnapshotResolver(catalog port.CatalogQuery) *CatalogSnapshotResolver {
	return &CatalogSnapshotResolver{catalog: catalog}
}

// Resolve 返回 ID 到商品快照的映射。任一 ID 不存在时返回 *domain.NotFoundError，
// 其中列出全部缺失的 ID。
func (r *CatalogSnapshotResolver) Resolve(ctx context.Context, ids []int64) (map[int64]domain.CatalogFact, error) {
	distinct := make([]int64, 0, len(ids))
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := wanted[id]; ok {
			continue
		}
		wanted[id] = struct{}{}
		distinct = append(distinct, id)
	}
	if len(distinct) == 0 {
		return map[int64]domain.CatalogFact{}, nil
	}

	facts, err := r.catalog.ListByIDs(ctx, distinct)
	if err != nil {
		return nil, errors.Wrap(err, "query catalog")
	}

	resolved := make(map[int64]domain.CatalogFact, len(distinct))
	for _, fact := range facts {
		if _, ok := wanted[fact.ID]; ok {
			resolved[fact.ID] = fact
		}
	}

	var missing []int64
	for _, id := range distinct {
		if _, ok := resolved[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, &domain.NotFoundError{Entity: "catalog item", IDs: missing}
	}
	return resolved, nil
}
