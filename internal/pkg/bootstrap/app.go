// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/nacos"
)

const shutdownTimeout = 10 * time.Second

// Component 是随进程启停的后台组件（例如 Kafka 消费者）。
type Component interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context)
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName string
	Port        int

	// Nacos 不为空时，启动后注册实例，关停时注销。
	Nacos *nacos.Client

	// RegisterHandlers 允许服务在 /healthz、/metrics 之外注册自己的运维路由
	RegisterHandlers func(mux *http.ServeMux)

	Components []Component

	// Closers 在所有组件停止后按注册的逆序执行（tracer、writer、数据库等）
	Closers []func(ctx context.Context) error
}

// Run 封装了通用的启动和优雅关停逻辑，阻塞直到收到 SIGINT/SIGTERM 或某个组件失败。
func Run(parent context.Context, info AppInfo) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(mux)
	}
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(info.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Ctx(ctx).Info().Str("service", info.ServiceName).Int("port", info.Port).Msg("✅ Ops server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	started := make([]Component, 0, len(info.Components))
	for _, c := range info.Components {
		if err := c.Start(gctx); err != nil {
			shutdown(info, server, started, "")
			_ = g.Wait()
			return err
		}
		started = append(started, c)
	}

	var ip string
	if info.Nacos != nil {
		var err error
		if ip, err = outboundIP(); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("Could not determine outbound IP, skipping nacos registration")
		} else if err := info.Nacos.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("Nacos registration failed")
			ip = ""
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Ctx(ctx).Info().Str("service", info.ServiceName).Msg("Shutting down service...")
		shutdown(info, server, started, ip)
		return nil
	})

	err := g.Wait()
	logger.Ctx(ctx).Info().Str("service", info.ServiceName).Msg("Service gracefully shut down.")
	return err
}

// shutdown 按启动的逆序执行清理：注销 -> 组件 -> HTTP -> closers。
func shutdown(info AppInfo, server *http.Server, started []Component, ip string) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if info.Nacos != nil && ip != "" {
		if err := info.Nacos.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("Error deregistering from Nacos")
		}
	}

	for i := len(started) - 1; i >= 0; i-- {
		started[i].Stop(ctx)
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error shutting down http server")
	}

	for i := len(info.Closers) - 1; i >= 0; i-- {
		if err := info.Closers[i](ctx); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("Error during shutdown")
		}
	}
}

// outboundIP 获取本机用于对外通信的 IP（不会真正发包）。
func outboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
