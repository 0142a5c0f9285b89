package infrastructure

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/metrics"
	"eshop/internal/pkg/mq"
	"eshop/internal/service/order/domain"
)

// OrderProducerAdapter 实现了 port.OrderPublisher：把订单序列化后投递到处理队列。
// sender 通常是 mq.NewKafkaWriter 按同一个 policy 创建的 Writer，重试由它完成；
// policy 只用于上报耗尽时的尝试次数。
type OrderProducerAdapter struct {
	sender mq.Sender
	topic  string
	policy mq.RetryPolicy
}

func NewOrderProducerAdapter(sender mq.Sender, topic string, policy mq.RetryPolicy) *OrderProducerAdapter {
	return &OrderProducerAdapter{sender: sender, topic: topic, policy: policy}
}

// Publish 按 Pending -> Sent / DeliveryExhausted 的顺序推进一次投递。
// 所有重试都失败时返回 DeliveryExhausted 状态和 *domain.DeliveryExhaustedError。
func (p *OrderProducerAdapter) Publish(ctx context.Context, order *domain.Order) domain.DeliveryAttempt {
	attempt := domain.DeliveryAttempt{
		OrderID: order.ID(),
		Channel: p.topic,
		State:   domain.DeliveryPending,
	}

	payload, err := json.Marshal(order)
	if err != nil {
		// 序列化失败重试也没有意义，直接视为投递耗尽
		attempt.State = domain.DeliveryExhausted
		attempt.Err = &domain.DeliveryExhaustedError{Channel: p.topic, Attempts: 0, Err: errors.Wrap(err, "marshal order")}
		p.report(ctx, attempt)
		return attempt
	}

	msg := mq.NewMessage(ctx, []byte(order.BuyerID()), payload)
	msg.Headers = append(msg.Headers, kafka.Header{Key: "order-id", Value: []byte(strconv.FormatInt(order.ID(), 10))})

	if err := mq.Send(ctx, p.sender, p.topic, msg); err != nil {
		attempt.Attempts = p.policy.Attempts()
		attempt.State = domain.DeliveryExhausted
		attempt.Err = &domain.DeliveryExhaustedError{Channel: p.topic, Attempts: attempt.Attempts, Err: err}
	} else {
		// Writer 内部的重试对调用方不可见，成功时只记录一次调用
		attempt.Attempts = 1
		attempt.State = domain.DeliverySent
	}
	p.report(ctx, attempt)
	return attempt
}

func (p *OrderProducerAdapter) report(ctx context.Context, attempt domain.DeliveryAttempt) {
	metrics.PublishResults.WithLabelValues(p.topic, string(attempt.State)).Inc()
	if attempt.Err != nil {
		logger.Ctx(ctx).Error().Err(attempt.Err).
			Int64("order_id", attempt.OrderID).
			Str("topic", p.topic).
			Int("attempts", attempt.Attempts).
			Msg("🚨 Order delivery exhausted")
		return
	}
	logger.Ctx(ctx).Info().
		Int64("order_id", attempt.OrderID).
		Str("topic", p.topic).
		Int("attempts", attempt.Attempts).
		Msg("Order sent to processing queue")
}
