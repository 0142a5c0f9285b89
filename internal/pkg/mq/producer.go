// internal/pkg/mq/producer.go
package mq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"eshop/internal/pkg/metrics"
)

// Sender 是 *kafka.Writer 的最小抽象，便于在测试中替换。
type Sender interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// MaxSendAttempts 是单条消息允许的最大发送次数（包括第一次）。
const MaxSendAttempts = 3

// RetryPolicy 描述 Writer 的有限次重试与退避区间。
type RetryPolicy struct {
	MaxAttempts int           // 总尝试次数（包括第一次）
	BackoffMin  time.Duration // 第一次重试前的等待
	BackoffMax  time.Duration // 等待时间上限
}

// DefaultRetryPolicy 最多尝试 3 次。
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: MaxSendAttempts,
		BackoffMin:  100 * time.Millisecond,
		BackoffMax:  time.Second,
	}
}

// normalized 把尝试次数限制在 [1, MaxSendAttempts]。
func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.MaxAttempts > MaxSendAttempts {
		p.MaxAttempts = MaxSendAttempts
	}
	return p
}

// Attempts 返回按该策略发送一条消息时最多会尝试的次数。
func (p RetryPolicy) Attempts() int {
	return p.normalized().MaxAttempts
}

// NewMessage 构造一条带 message-id、content-type 和链路上下文的消息。
func NewMessage(ctx context.Context, key, value []byte, headers ...kafka.Header) kafka.Message {
	headers = append(headers,
		kafka.Header{Key: HeaderMessageID, Value: []byte(uuid.New().String())},
		kafka.Header{Key: HeaderContentType, Value: []byte("application/json")},
	)
	return kafka.Message{
		Key:     key,
		Value:   value,
		Headers: InjectTraceContext(ctx, headers),
	}
}

// ProduceMessage 发送单条消息，自动注入链路上下文。
func ProduceMessage(ctx context.Context, sender Sender, key, value []byte) error {
	if err := sender.WriteMessages(ctx, NewMessage(ctx, key, value)); err != nil {
		return errors.Wrap(err, "produce message")
	}
	return nil
}

// Send 通过 sender 写入一条消息并记录指标。
// 重试发生在 Writer 内部，返回错误时表示所有尝试都已失败。
func Send(ctx context.Context, sender Sender, topic string, msg kafka.Message) error {
	start := time.Now()
	err := sender.WriteMessages(ctx, msg)
	metrics.PublishDuration.WithLabelValues(topic).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PublishWrites.WithLabelValues(topic, "error").Inc()
		return errors.Wrapf(err, "write to %s", topic)
	}
	metrics.PublishWrites.WithLabelValues(topic, "ok").Inc()
	return nil
}
