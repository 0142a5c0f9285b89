// internal/service/order/application/dto.go
package application

import "eshop/internal/service/order/domain"

// CreateOrderRequest 是创建订单用例的输入数据
type CreateOrderRequest struct {
	BasketID        int64
	ShippingAddress domain.Address
}

// CreateOrderResult 是创建订单用例的输出数据。
// Order 已经持久化；Delivery 描述下游投递结果，投递失败不会使下单失败。
type CreateOrderResult struct {
	Order    *domain.Order
	Delivery domain.DeliveryAttempt
}

// ToCreateOrderRequest 从结算事件转换为应用层请求DTO
func ToCreateOrderRequest(event *domain.CheckoutRequested) CreateOrderRequest {
	return CreateOrderRequest{
		BasketID:        event.BasketID,
		ShippingAddress: event.ShippingAddress,
	}
}
