package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// TopicOrderEvents — топик событий жизненного цикла заказа.
const TopicOrderEvents = "shop.order.events"

// OrderEventLine — позиция заказа в составе события.
type OrderEventLine struct {
	ProductID  string `json:"product_id"`
	PriceMinor int64  `json:"price_minor"`
	Qty        int32  `json:"qty"`
}

// OrderEvent представляет событие заказа, публикуемое после коммита
// транзакции.
type OrderEvent struct {
	EventType  string           `json:"event_type"`
	OrderID    string           `json:"order_id"`
	CustomerID string           `json:"customer_id"`
	TotalMinor int64            `json:"total_minor"`
	Lines      []OrderEventLine `json:"lines"`
	Timestamp  time.Time        `json:"timestamp"`
}

// NewOrderEvent собирает событие из снимка заказа после операции.
func NewOrderEvent(eventType string, order domain.Order) *OrderEvent {
	lines := make([]OrderEventLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderEventLine{
			ProductID:  line.ProductID,
			PriceMinor: line.PriceMinor,
			Qty:        line.Qty,
		})
	}
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		TotalMinor: order.TotalMinor,
		Lines:      lines,
		Timestamp:  time.Now().UTC(),
	}
}
