// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，但由基础设施层实现。
type OrderRepository interface {
	// Add 追加一个新订单并返回分配的订单 ID；失败时返回 *PersistenceError。
	Add(ctx context.Context, order *Order) (int64, error)

	// FindByID 根据 ID 查找一个订单聚合，不存在时返回 ErrNotFound。
	FindByID(ctx context.Context, id int64) (*Order, error)
}
