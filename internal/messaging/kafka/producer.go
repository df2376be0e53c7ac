// Package kafka публикует события заказов в Kafka через sarama.
package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// Producer представляет Kafka producer для публикации событий заказов.
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// NewProducer создает нового producer с идемпотентной записью и
// подтверждением от всех in-sync реплик.
func NewProducer(brokers []string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // Требование идемпотентного режима

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   log.WithField("component", "kafka-producer"),
	}, nil
}

// PublishOrderEvent сериализует снимок заказа и публикует его в топик
// событий. Ключ сообщения — ID заказа, поэтому события одного заказа
// сохраняют порядок внутри партиции.
func (p *Producer) PublishOrderEvent(eventType string, order domain.Order) error {
	event := NewOrderEvent(eventType, order)
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     TopicOrderEvents,
		Key:       sarama.StringEncoder(order.ID),
		Value:     sarama.ByteEncoder(eventData),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic":      TopicOrderEvents,
			"event_type": eventType,
			"order_id":   order.ID,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":      TopicOrderEvents,
		"event_type": eventType,
		"order_id":   order.ID,
		"partition":  partition,
		"offset":     offset,
	}).Debug("order event sent to kafka")

	return nil
}

// Close закрывает producer.
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

var _ domain.OrderEventPublisher = (*Producer)(nil)
