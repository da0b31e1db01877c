package processor

import (
	"context"
	"time"

	"booknest/pkg/logger"
	"booknest/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "notification-service"

// MessageHandler обрабатывает одно сообщение из Kafka
type MessageHandler func(ctx context.Context, message kafka.Message) error

// KafkaConsumer читает один топик и передает сообщения обработчику.
// Для каждого топика (library_events, auth_events) создается свой consumer.
type KafkaConsumer struct {
	reader   *kafka.Reader
	handler  MessageHandler
	topic    string
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	handler MessageHandler,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		handler:  handler,
		topic:    topic,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается завершения цикла чтения
func (c *KafkaConsumer) Stop() {
	logger.Info().Str("topic", c.topic).Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Str("topic", c.topic).Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}

				logger.Debug().Err(err).Str("topic", c.topic).Msg("Error fetching message")
				time.Sleep(time.Second)
				continue
			}

			start := time.Now()
			if err := c.handler(ctx, message); err != nil {
				// Уведомления best-effort: сообщение коммитим даже при
				// ошибке, иначе одно недоставленное письмо заблокирует топик
				metrics.RecordKafkaError(serviceName, c.topic, "process")
				logger.Error().
					Err(err).
					Str("topic", c.topic).
					Int64("offset", message.Offset).
					Msg("Error processing message")
			} else {
				metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, time.Since(start))
			}

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Error().Err(err).Str("topic", c.topic).Msg("Error committing message")
			}
		}
	}
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
