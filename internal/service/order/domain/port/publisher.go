package port

import (
	"context"
	"eshop/internal/service/order/domain"
)

// OrderPublisher 是订单下游队列的出站端口。
type OrderPublisher interface {
	// Publish 把订单投递到处理队列，内部带有限次重试。
	// 投递结果通过 DeliveryAttempt 返回，而不是 error：投递失败不影响下单结果。
	Publish(ctx context.Context, order *domain.Order) domain.DeliveryAttempt
}
