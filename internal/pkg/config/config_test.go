package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func validEnv() map[string]string {
	return map[string]string{
		"ORDER_QUEUE_CONNECTION": "kafka-1:9092, kafka-2:9092",
		"ORDER_QUEUE_NAME":       "orders",
		"ORDER_ERROR_NOTIFY_URL": "http://alerts.local/order-errors",
		"MYSQL_DSN":              "root:secret@tcp(127.0.0.1:3306)/eshop?parseTime=true",
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom("", envLookup(validEnv()))
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Queue.Brokers())
	assert.Equal(t, "orders", cfg.Queue.Name)
	assert.Equal(t, 3, cfg.Queue.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Redis.CatalogTTL)
	assert.Equal(t, 8081, cfg.Service.HTTPPort)
	assert.Empty(t, cfg.Queue.DeadLetterName)
}

func TestLoadFrom_MissingRequired(t *testing.T) {
	for _, key := range []string{"ORDER_QUEUE_CONNECTION", "ORDER_QUEUE_NAME", "ORDER_ERROR_NOTIFY_URL", "MYSQL_DSN"} {
		t.Run(key, func(t *testing.T) {
			env := validEnv()
			delete(env, key)

			_, err := LoadFrom("", envLookup(env))
			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, key, ce.Field)
		})
	}
}

func TestLoadFrom_Malformed(t *testing.T) {
	tests := []struct {
		key, value, field string
	}{
		{"ORDER_QUEUE_CONNECTION", "kafka-without-port", "ORDER_QUEUE_CONNECTION"},
		{"ORDER_QUEUE_CONNECTION", "kafka:notaport", "ORDER_QUEUE_CONNECTION"},
		{"ORDER_QUEUE_NAME", "two words", "ORDER_QUEUE_NAME"},
		{"ORDER_ERROR_NOTIFY_URL", "alerts.local/path", "ORDER_ERROR_NOTIFY_URL"},
		{"ORDER_ERROR_NOTIFY_URL", "ftp://alerts.local", "ORDER_ERROR_NOTIFY_URL"},
		{"MYSQL_DSN", "root:secret@tcp(127.0.0.1:3306", "MYSQL_DSN"},
		{"ORDER_DLT_NAME", "orders", "ORDER_DLT_NAME"},
		{"ORDER_QUEUE_MAX_ATTEMPTS", "0", "ORDER_QUEUE_MAX_ATTEMPTS"},
		{"ORDER_QUEUE_MAX_ATTEMPTS", "three", "ORDER_QUEUE_MAX_ATTEMPTS"},
		{"ORDER_QUEUE_MAX_ATTEMPTS", "4", "ORDER_QUEUE_MAX_ATTEMPTS"},
		{"ORDER_QUEUE_MAX_ATTEMPTS", "10", "ORDER_QUEUE_MAX_ATTEMPTS"},
		{"ORDER_ERROR_NOTIFY_TIMEOUT", "soon", "ORDER_ERROR_NOTIFY_TIMEOUT"},
		{"HTTP_PORT", "70000", "HTTP_PORT"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			env := validEnv()
			env[tt.key] = tt.value

			_, err := LoadFrom("", envLookup(env))
			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestLoadFrom_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order-service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
queue:
  connection: yaml-kafka:9092
  name: yaml-orders
  deadLetterName: yaml-orders-dlt
  maxAttempts: 2
notify:
  errorUrl: https://alerts.example.com/hook
mysql:
  dsn: "u:p@tcp(db:3306)/eshop"
redis:
  catalogTtl: 1m
`), 0o600))

	cfg, err := LoadFrom(path, envLookup(map[string]string{"ORDER_QUEUE_NAME": "env-orders"}))
	require.NoError(t, err)
	assert.Equal(t, "env-orders", cfg.Queue.Name)
	assert.Equal(t, []string{"yaml-kafka:9092"}, cfg.Queue.Brokers())
	assert.Equal(t, "yaml-orders-dlt", cfg.Queue.DeadLetterName)
	assert.Equal(t, 2, cfg.Queue.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Redis.CatalogTTL)
}

func TestLoadFrom_BadFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"), envLookup(validEnv()))
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConfigPathEnv, ce.Field)
}

func TestLoadFrom_MaxAttemptsUpperBound(t *testing.T) {
	env := validEnv()
	env["ORDER_QUEUE_MAX_ATTEMPTS"] = "3"
	cfg, err := LoadFrom("", envLookup(env))
	require.NoError(t, err)
	assert.Equal(t, MaxQueueAttempts, cfg.Queue.MaxAttempts)

	env["ORDER_QUEUE_MAX_ATTEMPTS"] = "4"
	_, err = LoadFrom("", envLookup(env))
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ORDER_QUEUE_MAX_ATTEMPTS", ce.Field)
}
