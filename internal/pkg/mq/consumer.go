// internal/pkg/mq/consumer.go
package mq

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/metrics"
)

// Reader 是 *kafka.Reader 的最小抽象。
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler 是“处理成功”能力：返回 nil 表示消息已被处理，可以确认。
type Handler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// HandlerFunc 让普通函数实现 Handler。
type HandlerFunc func(ctx context.Context, msg kafka.Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg kafka.Message) error { return f(ctx, msg) }

// ErrorHandler 是“处理失败”能力。它必须自行吞掉错误，不能影响消费循环。
type ErrorHandler interface {
	HandleError(ctx context.Context, msg kafka.Message, cause error)
}

// ErrorHandlerFunc 让普通函数实现 ErrorHandler。
type ErrorHandlerFunc func(ctx context.Context, msg kafka.Message, cause error)

func (f ErrorHandlerFunc) HandleError(ctx context.Context, msg kafka.Message, cause error) {
	f(ctx, msg, cause)
}

// ErrorHandlers 依次调用多个 ErrorHandler。
type ErrorHandlers []ErrorHandler

func (hs ErrorHandlers) HandleError(ctx context.Context, msg kafka.Message, cause error) {
	for _, h := range hs {
		if h != nil {
			h.HandleError(ctx, msg, cause)
		}
	}
}

// RetryableError 标记一次暂时性的处理失败：消息不会交给 ErrorHandler，也不会被提交，
// 而是在退避后重新处理，直到成功或消费者停止。
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return "retryable: " + e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable 把 err 包装为 *RetryableError，err 为 nil 时返回 nil。
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable 判断错误链中是否有 *RetryableError。
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const (
	defaultProcessingTimeout = 30 * time.Second
	defaultFetchBackoff      = time.Second
	defaultRetryBackoff      = 2 * time.Second
	commitTimeout            = 10 * time.Second
)

// ConsumerOption 配置 Consumer。
type ConsumerOption func(*Consumer)

// WithProcessingTimeout 设置单条消息的处理超时。
func WithProcessingTimeout(d time.Duration) ConsumerOption {
	return func(c *Consumer) { c.processingTimeout = d }
}

// WithFetchBackoff 设置拉取失败后的等待时间。
func WithFetchBackoff(d time.Duration) ConsumerOption {
	return func(c *Consumer) { c.fetchBackoff = d }
}

// WithRetryBackoff 设置暂时性处理失败后重新处理前的等待时间。
func WithRetryBackoff(d time.Duration) ConsumerOption {
	return func(c *Consumer) { c.retryBackoff = d }
}

// Consumer 是进程级的长期消费者：拉取消息、交给 Handler，
// 失败时交给 ErrorHandler，随后无论成功失败都提交 Offset。
// 例外是 *RetryableError：同一条消息会被反复处理，Offset 不会越过它。
type Consumer struct {
	reader  Reader
	topic   string
	handler Handler
	onError ErrorHandler

	processingTimeout time.Duration
	fetchBackoff      time.Duration
	retryBackoff      time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewConsumer 创建消费者。onError 可以为 nil，此时失败只记录日志。
func NewConsumer(reader Reader, topic string, handler Handler, onError ErrorHandler, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:            reader,
		topic:             topic,
		handler:           handler,
		onError:           onError,
		processingTimeout: defaultProcessingTimeout,
		fetchBackoff:      defaultFetchBackoff,
		retryBackoff:      defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start 在后台启动消费循环并立即返回。
// 队列暂时不可达不会导致失败，只会进入降级模式并持续重试。
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	c.started = true

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(runCtx)
	}()
	logger.Ctx(ctx).Info().Str("topic", c.topic).Msg("✅ Kafka consumer started.")
	return nil
}

// Stop 停止拉取新消息，等待正在处理的消息完成。
// Reader 由消费循环退出时关闭，因此 ctx 超时后正在处理的消息仍然可以提交。
func (c *Consumer) Stop(ctx context.Context) {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		logger.Ctx(ctx).Info().Str("topic", c.topic).Msg("🛑 Kafka consumer stopped.")
	case <-ctx.Done():
		logger.Ctx(ctx).Warn().Str("topic", c.topic).Msg("Timed out waiting for in-flight message, reader closes once it finishes.")
	}
}

func (c *Consumer) run(ctx context.Context) {
	defer func() {
		if err := c.reader.Close(); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("topic", c.topic).Msg("Failed to close kafka reader")
		}
	}()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			metrics.ConsumerFetchErrors.WithLabelValues(c.topic).Inc()
			logger.Ctx(ctx).Warn().Err(err).Str("topic", c.topic).Msg("Could not fetch message, queue degraded. Retrying...")
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.fetchBackoff):
			}
			continue
		}

		c.process(ctx, msg)
	}
}

// process 处理一条消息。处理本身不随 Stop 取消，保证正在处理的消息可以完成；
// 只有暂时性失败后的等待会被 Stop 打断，此时消息保持未提交，重启后重新投递。
func (c *Consumer) process(runCtx context.Context, msg kafka.Message) {
	parent := context.WithoutCancel(runCtx)
	ctx := ExtractTraceContext(parent, msg.Headers)

	for {
		err := c.handle(ctx, msg)
		if err == nil {
			metrics.ConsumerMessages.WithLabelValues(c.topic, "acknowledged").Inc()
			break
		}
		if IsRetryable(err) {
			metrics.ConsumerMessages.WithLabelValues(c.topic, "retried").Inc()
			logger.Ctx(ctx).Warn().Err(err).
				Str("topic", msg.Topic).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Dur("backoff", c.retryBackoff).
				Msg("Transient processing failure, message will be retried")
			select {
			case <-runCtx.Done():
				logger.Ctx(ctx).Info().Str("topic", c.topic).Int64("offset", msg.Offset).
					Msg("Consumer stopping, message left uncommitted for redelivery")
				return
			case <-time.After(c.retryBackoff):
			}
			continue
		}

		metrics.ConsumerMessages.WithLabelValues(c.topic, "processing_failed").Inc()
		logger.Ctx(ctx).Error().Err(err).
			Str("topic", msg.Topic).
			Int("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("Message processing failed")
		if c.onError != nil {
			c.onError.HandleError(ctx, msg, err)
		}
		break
	}

	commitCtx, commitCancel := context.WithTimeout(parent, commitTimeout)
	defer commitCancel()
	if err := c.reader.CommitMessages(commitCtx, msg); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("topic", c.topic).Msg("Failed to commit messages")
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	procCtx, cancel := context.WithTimeout(ctx, c.processingTimeout)
	defer cancel()
	return c.handler.Handle(procCtx, msg)
}
