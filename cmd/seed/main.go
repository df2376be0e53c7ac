package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
	"github.com/vladislavdragonenkov/shop/internal/storage/postgres"
)

// seed наполняет базу демонстрационными данными: два клиента, две
// категории, несколько товаров и один заказ.
func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	var dsn string
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: SHOP_POSTGRES_DSN)")
	flag.Parse()

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("SHOP_POSTGRES_DSN"))
	}
	if dsn == "" {
		log.Fatal("SHOP_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		log.WithError(err).Fatal("open postgres store")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("apply migrations")
	}

	logger := log.WithField("component", "seed")
	customers := catalog.NewCustomerService(store.Customers(), logger)
	categories := catalog.NewCategoryService(store.Categories(), logger)
	products := catalog.NewProductService(store.Products(), store.Categories(), logger)
	engine := order.NewEngine(store, store.Products(), nil, nil, logger)

	sal, err := customers.Register(ctx, "Sal", "sal123@su.com", "12 Campus Way", "")
	if err != nil {
		log.WithError(err).Fatal("seed customer Sal")
	}
	if _, err := customers.Register(ctx, "Amjad", "amjad123@su.com", "9 College Rd", ""); err != nil {
		log.WithError(err).Fatal("seed customer Amjad")
	}

	sports, err := categories.Create(ctx, "Sports Equipment", "Balls, rackets and training gear")
	if err != nil {
		log.WithError(err).Fatal("seed category Sports Equipment")
	}
	clothing, err := categories.Create(ctx, "Summer clothing", "Lightweight seasonal wear")
	if err != nil {
		log.WithError(err).Fatal("seed category Summer clothing")
	}

	ball, err := products.Create(ctx, sports.ID, "Basketball", 1699, 50)
	if err != nil {
		log.WithError(err).Fatal("seed product Basketball")
	}
	if _, err := products.Create(ctx, clothing.ID, "T-Shirt", 1199, 3); err != nil {
		log.WithError(err).Fatal("seed product T-Shirt")
	}

	created, err := engine.Create(ctx, sal.ID, []order.ItemRequest{
		{ProductID: ball.ID, Qty: 2},
	})
	if err != nil {
		log.WithError(err).Fatal("seed demo order")
	}

	log.WithFields(log.Fields{
		"order_id":    created.ID,
		"total_minor": created.TotalMinor,
	}).Info("демо-данные загружены")
}
