package adapter

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"eshop/internal/pkg/httpclient"
	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/metrics"
	"eshop/internal/pkg/mq"
)

// HTTPErrorNotifier 实现 mq.ErrorHandler：消息处理失败时，把原始订单报文 POST 到告警地址。
// 通知只是提示性的：失败或超时只记录日志，不重试，也不会影响消费流程。
type HTTPErrorNotifier struct {
	client  *httpclient.Client
	url     string
	timeout time.Duration
}

func NewHTTPErrorNotifier(client *httpclient.Client, url string, timeout time.Duration) *HTTPErrorNotifier {
	return &HTTPErrorNotifier{client: client, url: url, timeout: timeout}
}

func (n *HTTPErrorNotifier) HandleError(ctx context.Context, msg kafka.Message, cause error) {
	// 使用独立的超时，与消息处理的 context 解耦
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	err := n.client.PostBody(notifyCtx, n.url, "application/json", msg.Value)
	if err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		logger.Ctx(ctx).Error().Err(err).
			AnErr("cause", cause).
			Str("message_id", mq.HeaderValue(msg, mq.HeaderMessageID)).
			Msg("Failed to notify operator about processing failure")
		return
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
	logger.Ctx(ctx).Warn().
		AnErr("cause", cause).
		Str("message_id", mq.HeaderValue(msg, mq.HeaderMessageID)).
		Msg("Operator notified about processing failure")
}

var _ mq.ErrorHandler = (*HTTPErrorNotifier)(nil)
