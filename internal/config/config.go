package config

import (
	"fmt"
	"os"
	"time"
)

const (
	ServiceName    = "inventory-store"
	ServiceVersion = "0.1.0"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
)

const (
	ShutdownTimeout = 5 * time.Second
	ExportTimeout   = 30 * time.Second
	MaxQueueSize    = 2048
	TracesPath      = "/v1/traces"
)

type Config struct {
	HTTPAddr     string
	GRPCAddr     string
	Backend      string
	SQLitePath   string
	MySQLDSN     string
	RedisAddr    string
	KafkaBroker  string
	KafkaTopic   string
	OtelEndpoint string
	LogLevel     string
}

// Load reads the configuration from the environment. Only the variables of the
// selected backend are consulted; Kafka and tracing stay off when unset.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		GRPCAddr:     getenv("GRPC_ADDR", ":50051"),
		Backend:      getenv("STORE_BACKEND", BackendMemory),
		SQLitePath:   getenv("SQLITE_PATH", "./data/inventory.db"),
		MySQLDSN:     getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/inventory?parseTime=true"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:  os.Getenv("KAFKA_BROKER"),
		KafkaTopic:   getenv("KAFKA_TOPIC", "inventory-items"),
		OtelEndpoint: os.Getenv("OTEL_ENDPOINT"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	switch cfg.Backend {
	case BackendMemory, BackendSQLite, BackendMySQL, BackendRedis:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
	}

	if cfg.HTTPAddr == "" && cfg.GRPCAddr == "" {
		return nil, fmt.Errorf("at least one of HTTP_ADDR or GRPC_ADDR is required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
