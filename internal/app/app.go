package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/health"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/httpapi"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
	"github.com/vladislavdragonenkov/shop/internal/version"
)

// Run собирает зависимости и запускает API-сервер вместе с сервером
// метрик. Блокируется до отмены ctx или фатальной ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	// Kafka опционален: без брокеров события заказов не публикуются.
	publisher, closePublisher := initEventPublisher(cfg, logger)
	defer closePublisher()

	orderMetrics := metrics.NewOrderMetrics()
	engine := order.NewEngine(
		storage.OrderStore,
		storage.Products,
		publisher,
		orderMetrics,
		logger.WithField("layer", "order-engine"),
	)

	catalogLogger := logger.WithField("layer", "catalog")
	categoryService := catalog.NewCategoryService(storage.Categories, catalogLogger)
	productService := catalog.NewProductService(storage.Products, storage.Categories, catalogLogger)
	customerService := catalog.NewCustomerService(storage.Customers, catalogLogger)

	healthHandler := health.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", health.NewPingChecker("storage", 2*time.Second, storage.Ping))

	api := httpapi.NewServer(
		engine,
		categoryService,
		productService,
		customerService,
		healthHandler,
		logger.WithField("layer", "http"),
	)
	api.SetLowStockThreshold(cfg.LowStockThreshold)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
