package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Producer publishes domain events to Kafka, one topic per routing key.
type Producer struct {
	producer sarama.SyncProducer
}

// NewConfig returns the sarama settings used for event publishing.
func NewConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	return config
}

// NewProducer connects to the brokers, retrying a few times while Kafka starts.
func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one Kafka broker is required")
	}

	var err error
	for i := 1; i <= 5; i++ {
		var p sarama.SyncProducer
		p, err = sarama.NewSyncProducer(brokers, NewConfig())
		if err == nil {
			log.Printf("Kafka producer connected to %v", brokers)
			return NewProducerWithSync(p), nil
		}

		log.Printf("Failed to connect to Kafka (try %d/5): %v", i, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("could not connect to Kafka after 5 attempts: %w", err)
}

// NewProducerWithSync wraps an existing sarama producer.
func NewProducerWithSync(p sarama.SyncProducer) *Producer {
	return &Producer{producer: p}
}

// Publish sends payload as JSON on the topic named after routingKey.
func (p *Producer) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	event := map[string]interface{}{
		"event_type": routingKey,
		"data":       payload,
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: routingKey,
		Value: sarama.ByteEncoder(messageBytes),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send %s event: %w", routingKey, err)
	}

	log.Printf("Sent %s event to partition %d at offset %d", routingKey, partition, offset)
	return nil
}

// Close flushes and closes the underlying producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
