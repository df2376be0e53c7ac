package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
	"github.com/vladislavdragonenkov/shop/internal/storage/postgres"
)

// storageDependencies — репозитории и транзакционное хранилище заказов,
// собранные для выбранного драйвера.
type storageDependencies struct {
	OrderStore domain.OrderStore
	Customers  domain.CustomerRepository
	Categories domain.CategoryRepository
	Products   domain.ProductRepository

	// Ping проверяет доступность хранилища; для памяти всегда успешен.
	Ping func(ctx context.Context) error
	// Close освобождает ресурсы драйвера.
	Close func() error
}

// initStorage инициализирует хранилище по конфигурации.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageDependencies, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory:
		store := memory.NewStore()
		logger.Info("using in-memory storage driver")
		return &storageDependencies{
			OrderStore: store,
			Customers:  store.Customers(),
			Categories: store.Categories(),
			Products:   store.Products(),
			Ping:       func(context.Context) error { return nil },
			Close:      func() error { return nil },
		}, nil

	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply postgres migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}
		logger.Info("using postgres storage driver")
		return &storageDependencies{
			OrderStore: store,
			Customers:  store.Customers(),
			Categories: store.Categories(),
			Products:   store.Products(),
			Ping:       store.Ping,
			Close:      store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}
