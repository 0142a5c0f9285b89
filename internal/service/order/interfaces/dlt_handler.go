// internal/service/order/interfaces/dlt_handler.go
package interfaces

import (
	"context"

	"github.com/segmentio/kafka-go"

	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/mq"
)

// DeadLetterLogger 监听死信队列并记录日志。
// DLT 中的消息总是直接确认，因为它们已经被“处理”了（即记录日志）。
type DeadLetterLogger struct{}

func NewDeadLetterLogger() *DeadLetterLogger {
	return &DeadLetterLogger{}
}

func (DeadLetterLogger) Handle(ctx context.Context, msg kafka.Message) error {
	logger.Ctx(ctx).Error().
		Str("reason", "dead_letter_message_received").
		Str("original_topic", mq.HeaderValue(msg, mq.HeaderOriginalTopic)).
		Str("original_partition", mq.HeaderValue(msg, mq.HeaderOriginalPartition)).
		Str("original_offset", mq.HeaderValue(msg, mq.HeaderOriginalOffset)).
		Str("exception_fqcn", mq.HeaderValue(msg, mq.HeaderExceptionFqcn)).
		Str("exception_message", mq.HeaderValue(msg, mq.HeaderExceptionMessage)).
		Str("key", string(msg.Key)).
		Str("value", string(msg.Value)).
		Msg("🚨 CRITICAL: Dead letter message received")
	return nil
}

var _ mq.Handler = DeadLetterLogger{}
