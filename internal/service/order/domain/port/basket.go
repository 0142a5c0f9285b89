package port

import (
	"context"
	"eshop/internal/service/order/domain"
)

// BasketQuery 是购物车存储的出站端口。
type BasketQuery interface {
	// GetWithItems 加载购物车及其商品行。购物车不存在时返回 (nil, nil)。
	GetWithItems(ctx context.Context, basketID int64) (*domain.Basket, error)
}
