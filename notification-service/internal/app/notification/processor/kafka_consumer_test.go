package processor

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestNewKafkaConsumer(t *testing.T) {
	handler := func(ctx context.Context, message kafka.Message) error { return nil }

	consumer := NewKafkaConsumer([]string{"localhost:9092"}, "library_events", "notification-workers", 1, 10e6, handler)

	assert.NotNil(t, consumer)
	assert.NotNil(t, consumer.reader)
	assert.NotNil(t, consumer.handler)
	assert.NotNil(t, consumer.stopChan)
	assert.NotNil(t, consumer.doneChan)
	assert.Equal(t, "library_events", consumer.topic)

	consumer.reader.Close()
}

func TestNewKafkaConsumer_MultipleBrokers(t *testing.T) {
	handler := func(ctx context.Context, message kafka.Message) error { return nil }
	brokers := []string{"broker1:9092", "broker2:9092", "broker3:9092"}

	consumer := NewKafkaConsumer(brokers, "auth_events", "notification-workers", 1, 10e6, handler)

	assert.NotNil(t, consumer)
	assert.Equal(t, brokers, consumer.reader.Config().Brokers)

	consumer.reader.Close()
}
