// Package kafka publishes task-game notifications. Every message is
// wrapped in a service envelope so downstream consumers can attribute
// and order events without inspecting the payload.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Topics this service publishes to.
const (
	TopicTaskAssignments = "task-assignments"
	TopicEventReminders  = "event-reminders"
)

const sourceName = "taskgame-service"

type Config struct {
	Brokers []string
}

type envelope struct {
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(cfg Config) (*Producer, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{writer: writer}, nil
}

// Send publishes message to topic wrapped in the service envelope.
func (p *Producer) Send(ctx context.Context, topic string, message interface{}) error {
	msgBytes, err := json.Marshal(envelope{
		Source:     sourceName,
		OccurredAt: time.Now(),
		Payload:    message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: msgBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
