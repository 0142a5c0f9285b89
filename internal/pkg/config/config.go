// internal/pkg/config/config.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv 指定可选的 YAML 配置文件路径。
const ConfigPathEnv = "ORDER_SERVICE_CONFIG"

// MaxQueueAttempts 是向订单队列发送一条消息的最大尝试次数上限。
const MaxQueueAttempts = 3

// ConfigurationError 表示缺失或格式错误的配置项。
// 它只会在启动阶段出现，服务随即退出，不会尝试使用空连接。
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Config 是订单服务的全部配置。
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Queue     QueueConfig     `yaml:"queue"`
	Notify    NotifyConfig    `yaml:"notify"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Redis     RedisConfig     `yaml:"redis"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
	Nacos     NacosConfig     `yaml:"nacos"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

type ServiceConfig struct {
	Name     string `yaml:"name"`
	HTTPPort int    `yaml:"httpPort"`
	LogLevel string `yaml:"logLevel"`
}

// QueueConfig 描述订单下游队列。Connection 与 Name 必填，没有默认值。
type QueueConfig struct {
	Connection        string        `yaml:"connection"` // 逗号分隔的 Kafka broker 列表
	Name              string        `yaml:"name"`
	ConsumerGroup     string        `yaml:"consumerGroup"`
	DeadLetterName    string        `yaml:"deadLetterName"`
	CheckoutTopic     string        `yaml:"checkoutTopic"`
	MaxAttempts       int           `yaml:"maxAttempts"`
	BackoffMin        time.Duration `yaml:"backoffMin"`
	BackoffMax        time.Duration `yaml:"backoffMax"`
	WriteTimeout      time.Duration `yaml:"writeTimeout"`
	ProcessingTimeout time.Duration `yaml:"processingTimeout"`
}

// Brokers 返回解析后的 broker 地址列表。
func (q QueueConfig) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(q.Connection, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type NotifyConfig struct {
	ErrorURL string        `yaml:"errorUrl"`
	Timeout  time.Duration `yaml:"timeout"`
}

type MySQLConfig struct {
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"autoMigrate"`
}

type RedisConfig struct {
	Addr       string        `yaml:"addr"`
	CatalogTTL time.Duration `yaml:"catalogTtl"`
}

type ZookeeperConfig struct {
	Servers        string        `yaml:"servers"`
	SessionTimeout time.Duration `yaml:"sessionTimeout"`
	LockTimeout    time.Duration `yaml:"lockTimeout"`
}

type NacosConfig struct {
	ServerAddrs string `yaml:"serverAddrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

type TracingConfig struct {
	JaegerEndpoint string `yaml:"jaegerEndpoint"`
}

type CatalogConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// Default 返回可选项的默认值；必填项保持为空。
func Default() *Config {
	return &Config{
		Service: ServiceConfig{Name: "order-service", HTTPPort: 8081, LogLevel: "info"},
		Queue: QueueConfig{
			ConsumerGroup:     "order-processing-group",
			MaxAttempts:       3,
			BackoffMin:        100 * time.Millisecond,
			BackoffMax:        1 * time.Second,
			WriteTimeout:      10 * time.Second,
			ProcessingTimeout: 30 * time.Second,
		},
		Notify:    NotifyConfig{Timeout: 5 * time.Second},
		MySQL:     MySQLConfig{AutoMigrate: true},
		Redis:     RedisConfig{CatalogTTL: 30 * time.Second},
		Zookeeper: ZookeeperConfig{SessionTimeout: 10 * time.Second, LockTimeout: 30 * time.Second},
		Nacos:     NacosConfig{Group: "DEFAULT_GROUP"},
	}
}

// Load 从环境变量（以及 ORDER_SERVICE_CONFIG 指向的 YAML 文件）加载并校验配置。
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(ConfigPathEnv), os.LookupEnv)
}

// LoadFrom 依次应用默认值、YAML 文件、环境变量，最后执行一次校验。
func LoadFrom(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigurationError{Field: ConfigPathEnv, Reason: err.Error()}
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, &ConfigurationError{Field: ConfigPathEnv, Reason: "invalid yaml: " + err.Error()}
		}
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"SERVICE_NAME":           &cfg.Service.Name,
		"LOG_LEVEL":              &cfg.Service.LogLevel,
		"ORDER_QUEUE_CONNECTION": &cfg.Queue.Connection,
		"ORDER_QUEUE_NAME":       &cfg.Queue.Name,
		"ORDER_CONSUMER_GROUP":   &cfg.Queue.ConsumerGroup,
		"ORDER_DLT_NAME":         &cfg.Queue.DeadLetterName,
		"CHECKOUT_TOPIC":         &cfg.Queue.CheckoutTopic,
		"ORDER_ERROR_NOTIFY_URL": &cfg.Notify.ErrorURL,
		"MYSQL_DSN":              &cfg.MySQL.DSN,
		"REDIS_ADDR":             &cfg.Redis.Addr,
		"ZOOKEEPER_SERVERS":      &cfg.Zookeeper.Servers,
		"NACOS_SERVER_ADDRS":     &cfg.Nacos.ServerAddrs,
		"NACOS_NAMESPACE":        &cfg.Nacos.Namespace,
		"NACOS_GROUP":            &cfg.Nacos.Group,
		"JAEGER_ENDPOINT":        &cfg.Tracing.JaegerEndpoint,
		"CATALOG_BASE_URL":       &cfg.Catalog.BaseURL,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	durations := map[string]*time.Duration{
		"ORDER_QUEUE_BACKOFF_MIN":    &cfg.Queue.BackoffMin,
		"ORDER_QUEUE_BACKOFF_MAX":    &cfg.Queue.BackoffMax,
		"ORDER_QUEUE_WRITE_TIMEOUT":  &cfg.Queue.WriteTimeout,
		"ORDER_PROCESSING_TIMEOUT":   &cfg.Queue.ProcessingTimeout,
		"ORDER_ERROR_NOTIFY_TIMEOUT": &cfg.Notify.Timeout,
		"REDIS_CATALOG_TTL":          &cfg.Redis.CatalogTTL,
		"ZOOKEEPER_SESSION_TIMEOUT":  &cfg.Zookeeper.SessionTimeout,
		"CHECKOUT_LOCK_TIMEOUT":      &cfg.Zookeeper.LockTimeout,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigurationError{Field: key, Reason: "invalid duration " + strconv.Quote(v)}
		}
		*dst = d
	}

	ints := map[string]*int{
		"HTTP_PORT":                &cfg.Service.HTTPPort,
		"ORDER_QUEUE_MAX_ATTEMPTS": &cfg.Queue.MaxAttempts,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigurationError{Field: key, Reason: "invalid integer " + strconv.Quote(v)}
		}
		*dst = n
	}

	if v, ok := lookup("MYSQL_AUTO_MIGRATE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigurationError{Field: "MYSQL_AUTO_MIGRATE", Reason: "invalid boolean " + strconv.Quote(v)}
		}
		cfg.MySQL.AutoMigrate = b
	}
	return nil
}

// Validate 校验配置，返回第一个发现的 *ConfigurationError。
func (c *Config) Validate() error {
	if c.Queue.Connection == "" {
		return &ConfigurationError{Field: "ORDER_QUEUE_CONNECTION", Reason: "is required"}
	}
	brokers := c.Queue.Brokers()
	if len(brokers) == 0 {
		return &ConfigurationError{Field: "ORDER_QUEUE_CONNECTION", Reason: "no broker address given"}
	}
	for _, b := range brokers {
		if err := validateHostPort(b); err != nil {
			return &ConfigurationError{Field: "ORDER_QUEUE_CONNECTION", Reason: err.Error()}
		}
	}
	if c.Queue.Name == "" {
		return &ConfigurationError{Field: "ORDER_QUEUE_NAME", Reason: "is required"}
	}
	if strings.ContainsAny(c.Queue.Name, " \t,") {
		return &ConfigurationError{Field: "ORDER_QUEUE_NAME", Reason: "must not contain whitespace or commas"}
	}
	if c.Queue.DeadLetterName != "" && c.Queue.DeadLetterName == c.Queue.Name {
		return &ConfigurationError{Field: "ORDER_DLT_NAME", Reason: "must differ from ORDER_QUEUE_NAME"}
	}
	if c.Queue.MaxAttempts < 1 || c.Queue.MaxAttempts > MaxQueueAttempts {
		return &ConfigurationError{Field: "ORDER_QUEUE_MAX_ATTEMPTS", Reason: fmt.Sprintf("must be between 1 and %d", MaxQueueAttempts)}
	}
	if c.Queue.BackoffMin <= 0 || c.Queue.BackoffMax < c.Queue.BackoffMin {
		return &ConfigurationError{Field: "ORDER_QUEUE_BACKOFF_MAX", Reason: "backoff range is invalid"}
	}

	if c.Notify.ErrorURL == "" {
		return &ConfigurationError{Field: "ORDER_ERROR_NOTIFY_URL", Reason: "is required"}
	}
	u, err := url.Parse(c.Notify.ErrorURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigurationError{Field: "ORDER_ERROR_NOTIFY_URL", Reason: "must be an absolute http(s) URL"}
	}
	if c.Notify.Timeout <= 0 {
		return &ConfigurationError{Field: "ORDER_ERROR_NOTIFY_TIMEOUT", Reason: "must be positive"}
	}

	if c.MySQL.DSN == "" {
		return &ConfigurationError{Field: "MYSQL_DSN", Reason: "is required"}
	}
	if _, err := mysql.ParseDSN(c.MySQL.DSN); err != nil {
		return &ConfigurationError{Field: "MYSQL_DSN", Reason: err.Error()}
	}

	if c.Service.HTTPPort <= 0 || c.Service.HTTPPort > 65535 {
		return &ConfigurationError{Field: "HTTP_PORT", Reason: "out of range"}
	}
	return nil
}

func validateHostPort(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid broker address %q: %v", addr, err)
	}
	if host == "" {
		return fmt.Errorf("invalid broker address %q: empty host", addr)
	}
	if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid broker address %q: bad port", addr)
	}
	return nil
}
