// cmd/order-service/main.go
package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"eshop/internal/pkg/bootstrap"
	"eshop/internal/pkg/clock"
	"eshop/internal/pkg/config"
	"eshop/internal/pkg/httpclient"
	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/mq"
	"eshop/internal/pkg/nacos"
	"eshop/internal/pkg/redis"
	"eshop/internal/service/order/application"
	"eshop/internal/service/order/domain/port"
	"eshop/internal/service/order/infrastructure"
	"eshop/internal/service/order/infrastructure/adapter"
	"eshop/internal/service/order/interfaces"
	"eshop/internal/tracing"
	"eshop/internal/zookeeper"
)

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	cfg, err := config.Load()
	if err != nil {
		// 配置错误在启动阶段直接退出，不会尝试建立任何连接
		logger.Init("order-service", "info")
		var ce *config.ConfigurationError
		if errors.As(err, &ce) {
			log.Fatal().Str("field", ce.Field).Str("reason", ce.Reason).Msg("❌ Invalid configuration")
		}
		log.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}
	logger.Init(cfg.Service.Name, cfg.Service.LogLevel)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("Service exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()
	var closers []func(ctx context.Context) error

	// 1. 初始化核心技术组件
	tp, err := tracing.InitTracerProvider(cfg.Service.Name, cfg.Tracing.JaegerEndpoint)
	if err != nil {
		return err
	}
	closers = append(closers, tp.Shutdown)
	tracer := otel.Tracer(cfg.Service.Name)

	db, err := infrastructure.OpenMySQL(cfg.MySQL.DSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, func(context.Context) error { return sqlDB.Close() })
	}
	if cfg.MySQL.AutoMigrate {
		if err := infrastructure.AutoMigrate(db); err != nil {
			return err
		}
	}

	// 2. 出站适配器
	var catalog port.CatalogQuery = infrastructure.NewGormCatalogRepository(db)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, catalog cache disabled")
		} else {
			catalog = adapter.NewCatalogRedisCache(catalog, rdb, cfg.Redis.CatalogTTL)
			closers = append(closers, func(context.Context) error { return rdb.Close() })
		}
	}

	var opts []application.Option
	if cfg.Zookeeper.Servers != "" {
		conn, err := zookeeper.Connect(cfg.Zookeeper.Servers, cfg.Zookeeper.SessionTimeout)
		if err != nil {
			return err
		}
		closers = append(closers, func(context.Context) error { conn.Close(); return nil })
		opts = append(opts, application.WithCheckoutLocker(adapter.NewZkCheckoutLocker(conn, cfg.Zookeeper.LockTimeout)))
	}

	brokers := cfg.Queue.Brokers()
	policy := mq.RetryPolicy{
		MaxAttempts: cfg.Queue.MaxAttempts,
		BackoffMin:  cfg.Queue.BackoffMin,
		BackoffMax:  cfg.Queue.BackoffMax,
	}
	orderWriter := mq.NewKafkaWriter(brokers, cfg.Queue.Name, cfg.Queue.WriteTimeout, policy)
	closers = append(closers, func(context.Context) error { return orderWriter.Close() })

	// 3. 应用服务
	orderService := application.NewOrderApplicationService(
		infrastructure.NewGormBasketRepository(db),
		application.NewCatalogSnapshotResolver(catalog),
		application.NewOrderAssembler(adapter.NewURIComposer(cfg.Catalog.BaseURL), clock.NewSystem()),
		infrastructure.NewGormOrderRepository(db),
		infrastructure.NewOrderProducerAdapter(orderWriter, cfg.Queue.Name, policy),
		tracer,
		opts...,
	)

	// 4. 入站适配器：处理队列消费者、结算请求消费者、死信日志
	var components []bootstrap.Component
	var dlt mq.ErrorHandler
	if cfg.Queue.DeadLetterName != "" {
		dltWriter := mq.NewKafkaWriter(brokers, cfg.Queue.DeadLetterName, cfg.Queue.WriteTimeout, policy)
		closers = append(closers, func(context.Context) error { return dltWriter.Close() })
		dlt = mq.NewFailureHandler(dltWriter, cfg.Queue.DeadLetterName)

		components = append(components, newConsumer(cfg, cfg.Queue.DeadLetterName, cfg.Queue.ConsumerGroup+"-dlt",
			interfaces.NewDeadLetterLogger(), nil))
	}

	notifier := adapter.NewHTTPErrorNotifier(httpclient.NewClient(tracer), cfg.Notify.ErrorURL, cfg.Notify.Timeout)
	components = append(components, newConsumer(cfg, cfg.Queue.Name, cfg.Queue.ConsumerGroup,
		interfaces.NewOrderProcessedHandler(nil), mq.ErrorHandlers{notifier, dlt}))

	if cfg.Queue.CheckoutTopic != "" {
		components = append(components, newConsumer(cfg, cfg.Queue.CheckoutTopic, cfg.Queue.ConsumerGroup+"-checkout",
			interfaces.NewCheckoutRequestHandler(orderService), mq.ErrorHandlers{dlt}))
	}

	var nacosClient *nacos.Client
	if cfg.Nacos.ServerAddrs != "" {
		if nacosClient, err = nacos.NewNacosClient(cfg.Nacos.ServerAddrs, cfg.Nacos.Namespace, cfg.Nacos.Group); err != nil {
			log.Warn().Err(err).Msg("Nacos unavailable, service registration disabled")
			nacosClient = nil
		}
	}

	return bootstrap.Run(ctx, bootstrap.AppInfo{
		ServiceName: cfg.Service.Name,
		Port:        cfg.Service.HTTPPort,
		Nacos:       nacosClient,
		Components:  components,
		Closers:     closers,
	})
}

func newConsumer(cfg *config.Config, topic, group string, handler mq.Handler, onError mq.ErrorHandler) *mq.Consumer {
	reader := mq.NewKafkaReader(cfg.Queue.Brokers(), topic, group)
	return mq.NewConsumer(reader, topic, handler, onError, mq.WithProcessingTimeout(cfg.Queue.ProcessingTimeout))
}
