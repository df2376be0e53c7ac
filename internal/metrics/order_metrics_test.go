package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewOrderMetricsWithRegisterer(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	if m == nil {
		t.Fatal("NewOrderMetricsWithRegisterer should not return nil")
	}
	if m.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}
	if m.ordersUpdated == nil {
		t.Error("ordersUpdated counter should not be nil")
	}
	if m.ordersDeleted == nil {
		t.Error("ordersDeleted counter should not be nil")
	}
	if m.operationsFailed == nil {
		t.Error("operationsFailed counter vec should not be nil")
	}
	if m.txDuration == nil {
		t.Error("txDuration histogram vec should not be nil")
	}
	if m.stockRestored == nil {
		t.Error("stockRestored counter should not be nil")
	}
	if m.lowStockProducts == nil {
		t.Error("lowStockProducts gauge should not be nil")
	}
}

func TestOrderMetrics_DoubleRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewOrderMetricsWithRegisterer(reg)
	second := NewOrderMetricsWithRegisterer(reg)

	if first.ordersCreated != second.ordersCreated {
		t.Error("expected the same ordersCreated collector on re-registration")
	}
	if first.txDuration != second.txDuration {
		t.Error("expected the same txDuration collector on re-registration")
	}
}

func TestOrderMetrics_Recording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetricsWithRegisterer(reg)

	m.OrderCreated()
	m.OrderCreated()
	m.OrderDeleted()
	m.OperationFailed("create", "insufficient_stock")
	m.ObserveTxDuration("create", 25*time.Millisecond)
	m.StockRestored(5)
	m.SetLowStockProducts(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	got := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				got[mf.GetName()] += metric.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				got[mf.GetName()] = metric.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				got[mf.GetName()] += float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	expectations := map[string]float64{
		"shop_orders_created_total":          2,
		"shop_orders_deleted_total":          1,
		"shop_order_operations_failed_total": 1,
		"shop_order_tx_duration_seconds":     1,
		"shop_stock_restored_total":          5,
		"shop_low_stock_products":            3,
	}
	for name, want := range expectations {
		if got[name] != want {
			t.Errorf("metric %s = %v, want %v", name, got[name], want)
		}
	}
}
