package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// KafkaChannel publishes alert events to a Kafka topic so downstream
// consumers can build their own delivery or archival on top.
type KafkaChannel struct {
	topic    string
	producer sarama.SyncProducer
}

// NewKafkaChannel connects a synchronous producer to the brokers.
func NewKafkaChannel(brokers []string, topic string, cfg *sarama.Config) (*KafkaChannel, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, errors.New("kafka brokers and topic are required")
	}
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return &KafkaChannel{topic: topic, producer: producer}, nil
}

// newKafkaChannelWithProducer wires a preconstructed producer; used by
// tests.
func newKafkaChannelWithProducer(topic string, producer sarama.SyncProducer) *KafkaChannel {
	return &KafkaChannel{topic: topic, producer: producer}
}

func (c *KafkaChannel) Name() string { return "kafka" }

type kafkaEnvelope struct {
	Type          model.AlertType `json:"type"`
	Severity      model.Severity  `json:"severity"`
	Message       string          `json:"message"`
	TransactionID string          `json:"transaction_id,omitempty"`
	SentAtMillis  int64           `json:"sent_at_ms"`
}

// Send publishes one envelope keyed by transaction hash.
func (c *KafkaChannel) Send(ctx context.Context, event model.AlertEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(kafkaEnvelope{
		Type:          event.Type,
		Severity:      event.Severity,
		Message:       event.Message,
		TransactionID: event.TxHash,
		SentAtMillis:  event.SentAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal kafka envelope: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: c.topic,
		Value: sarama.ByteEncoder(value),
	}
	if event.TxHash != "" {
		msg.Key = sarama.StringEncoder(event.TxHash)
	}

	if _, _, err := c.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

// Close releases the underlying producer.
func (c *KafkaChannel) Close() error {
	return c.producer.Close()
}
