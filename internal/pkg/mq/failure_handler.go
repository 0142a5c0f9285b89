// internal/pkg/mq/failure_handler.go
package mq

import (
	"context"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"eshop/internal/pkg/logger"
)

// FailureHandler 把处理失败的消息转发到死信主题（DLT），并附上来源信息。
type FailureHandler struct {
	sender   Sender
	dltTopic string
}

func NewFailureHandler(sender Sender, dltTopic string) *FailureHandler {
	return &FailureHandler{sender: sender, dltTopic: dltTopic}
}

// HandleError 实现 ErrorHandler。转发失败只记录日志。
func (h *FailureHandler) HandleError(ctx context.Context, msg kafka.Message, cause error) {
	headers := append([]kafka.Header{}, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: HeaderOriginalTopic, Value: []byte(msg.Topic)},
		kafka.Header{Key: HeaderOriginalPartition, Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: HeaderOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafka.Header{Key: HeaderExceptionFqcn, Value: []byte(fmt.Sprintf("%T", cause))},
		kafka.Header{Key: HeaderExceptionMessage, Value: []byte(cause.Error())},
	)
	dead := kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers}
	if err := h.sender.WriteMessages(ctx, dead); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("dlt_topic", h.dltTopic).
			Str("original_topic", msg.Topic).
			Int64("original_offset", msg.Offset).
			Msg("Failed to forward message to dead letter topic")
		return
	}
	logger.Ctx(ctx).Warn().
		Str("dlt_topic", h.dltTopic).
		Str("original_topic", msg.Topic).
		Int64("original_offset", msg.Offset).
		Msg("Message moved to dead letter topic")
}
