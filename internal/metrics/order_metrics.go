package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики транзакционного движка заказов.
type OrderMetrics struct {
	// Счётчики успешных операций
	ordersCreated prometheus.Counter
	ordersUpdated prometheus.Counter
	ordersDeleted prometheus.Counter

	// Отказы по операциям и причинам таксономии
	operationsFailed *prometheus.CounterVec

	// Длительность транзакций по операциям
	txDuration *prometheus.HistogramVec

	// Возвращённые на остаток единицы товара
	stockRestored prometheus.Counter

	// Gauge числа товаров с низким остатком (последний отчёт)
	lowStockProducts prometheus.Gauge
}

// NewOrderMetrics создаёт метрики движка в регистраторе по умолчанию.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer создаёт метрики в изолированном
// регистраторе (удобно в тестах).
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersUpdated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_updated_total",
			Help: "Total number of order item updates applied",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		operationsFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_order_operations_failed_total",
			Help: "Total number of rejected order operations",
		}, []string{"op", "reason"}),
		txDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "shop_order_tx_duration_seconds",
			Help:    "Duration of order transactions in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"op"}),
		stockRestored: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_stock_restored_total",
			Help: "Total number of stock units restored by order deletions",
		}),
		lowStockProducts: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "shop_low_stock_products",
			Help: "Number of products at or below the low stock threshold",
		}),
	}
}

// OrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) OrderCreated() {
	m.ordersCreated.Inc()
}

// OrderUpdated увеличивает счётчик применённых обновлений позиций.
func (m *OrderMetrics) OrderUpdated() {
	m.ordersUpdated.Inc()
}

// OrderDeleted увеличивает счётчик удалённых заказов.
func (m *OrderMetrics) OrderDeleted() {
	m.ordersDeleted.Inc()
}

// OperationFailed увеличивает счётчик отказов с меткой причины.
func (m *OrderMetrics) OperationFailed(op, reason string) {
	m.operationsFailed.WithLabelValues(op, reason).Inc()
}

// ObserveTxDuration записывает длительность транзакции операции.
func (m *OrderMetrics) ObserveTxDuration(op string, duration time.Duration) {
	m.txDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// StockRestored прибавляет возвращённые на остаток единицы.
func (m *OrderMetrics) StockRestored(units int32) {
	m.stockRestored.Add(float64(units))
}

// SetLowStockProducts фиксирует размер последнего low-stock отчёта.
func (m *OrderMetrics) SetLowStockProducts(count int) {
	m.lowStockProducts.Set(float64(count))
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
