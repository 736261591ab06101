// Package kafka publishes order notifications to a Kafka topic.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// HeaderEventType carries the order event type on every message.
const HeaderEventType = "event_type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes one message per outbox record. Messages are keyed by order
// id so a partition sees an order's events in order.
type Publisher struct {
	writer messageWriter
}

type Options struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

func NewPublisher(opts Options) (*Publisher, error) {
	if len(opts.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if opts.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}

	return newPublisher(&kafkago.Writer{
		Addr:                   kafkago.TCP(opts.Brokers...),
		Topic:                  opts.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		WriteTimeout:           opts.WriteTimeout,
		AllowAutoTopicCreation: true,
	}), nil
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) Publish(ctx context.Context, key, eventType string, payload []byte) error {
	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: HeaderEventType, Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s for %s: %w", eventType, key, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
