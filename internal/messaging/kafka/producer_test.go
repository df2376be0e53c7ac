package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

func testOrder() domain.Order {
	return domain.Order{
		ID:         "order-123",
		CustomerID: "cust-1",
		TotalMinor: 3398,
		Lines: []domain.OrderLine{
			{ID: "line-1", OrderID: "order-123", ProductID: "prod-1", PriceMinor: 1699, Qty: 2},
		},
	}
}

func TestProducer_PublishOrderEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	// Проверяем и доставку, и содержимое сообщения.
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event OrderEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.EventType != domain.EventOrderCreated {
			t.Errorf("expected event type %s, got %s", domain.EventOrderCreated, event.EventType)
		}
		if event.OrderID != "order-123" || event.TotalMinor != 3398 {
			t.Errorf("unexpected event payload: %+v", event)
		}
		if len(event.Lines) != 1 || event.Lines[0].Qty != 2 {
			t.Errorf("unexpected event lines: %+v", event.Lines)
		}
		return nil
	})

	if err := producer.PublishOrderEvent(domain.EventOrderCreated, testOrder()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishOrderEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	if err := producer.PublishOrderEvent(domain.EventOrderDeleted, testOrder()); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewOrderEvent(t *testing.T) {
	order := testOrder()
	event := NewOrderEvent(domain.EventOrderItemsUpdated, order)

	if event.EventType != domain.EventOrderItemsUpdated {
		t.Errorf("expected event type %s, got %s", domain.EventOrderItemsUpdated, event.EventType)
	}
	if event.OrderID != order.ID {
		t.Errorf("expected order id %s, got %s", order.ID, event.OrderID)
	}
	if event.CustomerID != order.CustomerID {
		t.Errorf("expected customer id %s, got %s", order.CustomerID, event.CustomerID)
	}
	if len(event.Lines) != 1 || event.Lines[0].ProductID != "prod-1" {
		t.Errorf("unexpected lines: %+v", event.Lines)
	}

	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}
