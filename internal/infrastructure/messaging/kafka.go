package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// NewKafkaProducer creates a synchronous producer that waits for all replicas
func NewKafkaProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.ClientID
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// KafkaMirror delivers messages to a local bus and copies them to Kafka.
// Kafka is a side channel: a failed send is logged and local delivery still
// happens.
type KafkaMirror struct {
	local       outbound.MessageBus
	producer    sarama.SyncProducer
	topicPrefix string
	log         *zap.Logger
}

var _ outbound.MessageBus = (*KafkaMirror)(nil)

// NewKafkaMirror wraps local
func NewKafkaMirror(local outbound.MessageBus, producer sarama.SyncProducer, topicPrefix string, log *zap.Logger) *KafkaMirror {
	return &KafkaMirror{
		local:       local,
		producer:    producer,
		topicPrefix: topicPrefix,
		log:         log.Named("kafka"),
	}
}

// Publish implements outbound.MessageBus
func (m *KafkaMirror) Publish(ctx context.Context, topic string, message outbound.Message) error {
	if err := m.local.Publish(ctx, topic, message); err != nil {
		return err
	}

	partition, offset, err := m.producer.SendMessage(toProducerMessage(m.topicPrefix+topic, message))
	if err != nil {
		m.log.Warn("Failed to mirror event to kafka",
			zap.String("topic", m.topicPrefix+topic),
			zap.String("type", message.Type),
			zap.Error(err))
		return nil
	}

	m.log.Debug("Event mirrored to kafka",
		zap.String("topic", m.topicPrefix+topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Subscribe registers with the local bus only
func (m *KafkaMirror) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	return m.local.Subscribe(ctx, topic, handler)
}

// Close closes the producer and the local bus
func (m *KafkaMirror) Close() error {
	perr := m.producer.Close()
	lerr := m.local.Close()
	if perr != nil {
		return fmt.Errorf("close kafka producer: %w", perr)
	}
	return lerr
}

func toProducerMessage(topic string, message outbound.Message) *sarama.ProducerMessage {
	headers := []sarama.RecordHeader{
		{Key: []byte("id"), Value: []byte(message.ID)},
		{Key: []byte("type"), Value: []byte(message.Type)},
	}
	for k, v := range message.Metadata {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	return &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(message.Type),
		Value:     sarama.ByteEncoder(message.Payload),
		Headers:   headers,
		Timestamp: message.Timestamp,
	}
}
