package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/port"
)

var _ port.EventPublisher = (*KafkaPublisher)(nil)

const (
	batchTimeout = 10 * time.Millisecond
	batchSize    = 100
)

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes item events as JSON, keyed by item id so every event
// for one item lands on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafkago.Writer{
		Addr:                   kafkago.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           batchTimeout,
		BatchSize:              batchSize,
		AllowAutoTopicCreation: true,
	})
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.ItemEvent) error {
	msg, err := eventMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func eventMessage(event domain.ItemEvent) (kafkago.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encode event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatUint(event.Item.ID, 10)),
		Value: body,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}
