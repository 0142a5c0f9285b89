// internal/service/order/domain/delivery.go
package domain

// DeliveryState 定义了单次订单投递的生命周期状态
type DeliveryState string

const (
	DeliveryPending          DeliveryState = "PENDING"            // 初始状态，尚未发送
	DeliverySent             DeliveryState = "SENT"               // 已写入队列，等待消费
	DeliveryAcknowledged     DeliveryState = "ACKNOWLEDGED"       // 消费者处理成功并确认
	DeliveryProcessingFailed DeliveryState = "PROCESSING_FAILED"  // 消费者处理失败，已触发告警
	DeliveryExhausted        DeliveryState = "DELIVERY_EXHAUSTED" // 所有重试均失败
)

// IsTerminal 判断状态是否为终态。
func (s DeliveryState) IsTerminal() bool {
	switch s {
	case DeliveryAcknowledged, DeliveryProcessingFailed, DeliveryExhausted:
		return true
	default:
		return false
	}
}

// DeliveryAttempt 记录一次投递尝试，不做持久化。
type DeliveryAttempt struct {
	OrderID  int64
	Channel  string
	Attempts int
	State    DeliveryState
	Err      error
}

// Delivered 表示订单已经成功写入队列。
func (a DeliveryAttempt) Delivered() bool {
	return a.State == DeliverySent || a.State == DeliveryAcknowledged
}
