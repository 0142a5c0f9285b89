package interfaces

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/mq"
	"eshop/internal/service/order/domain"
)

// OrderProcessor 是订单真正的下游处理逻辑（属于外部系统）。
type OrderProcessor func(ctx context.Context, order *domain.Order) error

// OrderProcessedHandler 是处理队列上的“处理成功”能力：解码订单并确认。
// 本服务不做实际处理，processor 为空时仅确认消息。
type OrderProcessedHandler struct {
	processor OrderProcessor
}

func NewOrderProcessedHandler(processor OrderProcessor) *OrderProcessedHandler {
	return &OrderProcessedHandler{processor: processor}
}

func (h *OrderProcessedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var order domain.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		return errors.Wrap(err, "decode order payload")
	}
	if h.processor != nil {
		if err := h.processor(ctx, &order); err != nil {
			return errors.Wrapf(err, "process order %d", order.ID())
		}
	}
	logger.Ctx(ctx).Info().
		Int64("order_id", order.ID()).
		Str("state", string(domain.DeliveryAcknowledged)).
		Str("message_id", mq.HeaderValue(msg, mq.HeaderMessageID)).
		Msg("Order message acknowledged")
	return nil
}

var _ mq.Handler = (*OrderProcessedHandler)(nil)
