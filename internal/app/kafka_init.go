package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
)

// splitBrokers разбирает список брокеров через запятую, отбрасывая
// пустые элементы.
func splitBrokers(raw string) []string {
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// initEventPublisher подключает Kafka, когда заданы брокеры. Возвращает
// publisher событий заказов и функцию закрытия; без брокеров (или при
// недоступной Kafka) publisher равен nil и движок пропускает публикацию.
func initEventPublisher(cfg Config, logger *log.Entry) (domain.OrderEventPublisher, func()) {
	nop := func() {}

	brokers := splitBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		logger.Info("kafka brokers are not configured, order events disabled")
		return nil, nop
	}

	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("kafka producer unavailable, order events disabled")
		return nil, nop
	}

	logger.WithField("brokers", brokers).Info("order events will be published to kafka")
	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			logger.Info("kafka producer closed")
		}
	}
}
