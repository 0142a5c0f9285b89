// internal/pkg/mq/kafka.go
package mq

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter 创建一个同步、需要全部副本确认的 Writer。
// 有限次重试和指数退避交给 kafka-go 自身完成，参数取自 policy。
func NewKafkaWriter(brokers []string, topic string, writeTimeout time.Duration, policy RetryPolicy) *kafka.Writer {
	policy = policy.normalized()
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            policy.MaxAttempts,
		WriteBackoffMin:        policy.BackoffMin,
		WriteBackoffMax:        policy.BackoffMax,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: false,
	}
}

// NewKafkaReader 创建一个消费组 Reader，偏移量由调用方手动提交。
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
}
