// internal/service/order/domain/event.go
package domain

// CheckoutRequested 是结算请求事件，由上游（购物车结算）写入 checkout 主题，
// 订单服务消费后调用 CreateOrder。
type CheckoutRequested struct {
	RequestID       string  `json:"requestId"`
	BasketID        int64   `json:"basketId"`
	ShippingAddress Address `json:"shippingAddress"`
}
