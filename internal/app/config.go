package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров через запятую; пустое значение
	// отключает публикацию событий.
	KafkaBrokers string

	LowStockThreshold int32
}

// DefaultConfig возвращает конфигурацию для локальной разработки:
// in-memory хранилище без Kafka.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		LowStockThreshold:   domain.DefaultLowStockThreshold,
	}
}

// LoadConfig читает конфигурацию из переменных окружения поверх значений
// по умолчанию.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("SHOP_HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("SHOP_METRICS_ADDR")); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("SHOP_STORAGE_DRIVER")); v != "" {
		cfg.StorageDriver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("SHOP_POSTGRES_DSN")); v != "" {
		cfg.PostgresDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("SHOP_POSTGRES_AUTO_MIGRATE")); v != "" {
		autoMigrate, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse SHOP_POSTGRES_AUTO_MIGRATE: %w", err)
		}
		cfg.PostgresAutoMigrate = autoMigrate
	}
	if v := strings.TrimSpace(os.Getenv("SHOP_KAFKA_BROKERS")); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := strings.TrimSpace(os.Getenv("SHOP_LOW_STOCK_THRESHOLD")); v != "" {
		threshold, err := strconv.ParseInt(v, 10, 32)
		if err != nil || threshold <= 0 {
			return Config{}, fmt.Errorf("SHOP_LOW_STOCK_THRESHOLD must be a positive integer, got %q", v)
		}
		cfg.LowStockThreshold = int32(threshold)
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("SHOP_POSTGRES_DSN is required for the postgres storage driver")
		}
	default:
		return Config{}, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}

	return cfg, nil
}
