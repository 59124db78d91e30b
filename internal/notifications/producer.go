package notifications

import (
	"context"
	"fmt"
	"time"

	"eventhub/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes engine events for downstream consumers.
type Producer interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka event producer
type KafkaProducerConfig struct {
	Brokers             []string
	NotificationTopic   string
	ReconciliationTopic string
	RetryMax            int
	TimeoutMs           int
	RequiredAcks        sarama.RequiredAcks
	CompressionType     sarama.CompressionCodec
	IdempotentWrites    bool
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:             []string{"localhost:9092"},
		NotificationTopic:   "booking-events",
		ReconciliationTopic: "booking-reconciliation",
		RetryMax:            3,
		TimeoutMs:           10000,
		RequiredAcks:        sarama.WaitForAll,
		CompressionType:     sarama.CompressionSnappy,
		IdempotentWrites:    true,
	}
}

// KafkaProducer publishes events to Kafka. Reconciliation signals go to a
// dedicated topic so the reconciliation consumer never races normal
// notification traffic.
type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

// NewKafkaProducer creates a new Kafka event producer
func NewKafkaProducer(config *KafkaProducerConfig, log *logger.Logger) (*KafkaProducer, error) {
	if config == nil {
		config = DefaultKafkaProducerConfig()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps per-entity ordering
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		config:   config,
		log:      log,
	}, nil
}

// Publish sends a single event to Kafka.
func (p *KafkaProducer) Publish(ctx context.Context, event Event) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	topic := p.config.NotificationTopic
	if event.IsReconciliation() {
		topic = p.config.ReconciliationTopic
	}

	message := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: event.Timestamp,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	p.log.InfoWithContext(ctx, "Event published", map[string]interface{}{
		"topic":     topic,
		"partition": partition,
		"offset":    offset,
		"type":      event.Type,
		"entity_id": event.EntityID,
	})

	return nil
}

// Close shuts the producer down
func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}

// NopProducer discards events. Used when Kafka is disabled and in tests.
type NopProducer struct{}

func (NopProducer) Publish(ctx context.Context, event Event) error { return nil }
func (NopProducer) Close() error                                   { return nil }
