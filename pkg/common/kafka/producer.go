package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/synaptica-ai/triage/pkg/common/logger"
)

// Event is the envelope written for every analysis or submission event.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	RunID     string                 `json:"run_id,omitempty"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer writes synchronously and hashes on the run id, so the events of
// one analysis pass land on the same partition in order.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchSize:    1,
			BatchTimeout: 10 * time.Millisecond,
		},
		topic: topic,
	}
}

func (p *Producer) PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error {
	msg, event, err := newMessage(eventType, source, data)
	if err != nil {
		return err
	}

	fields := logrus.Fields{
		"event_id":   event.ID,
		"event_type": eventType,
		"run_id":     event.RunID,
		"topic":      p.topic,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.WithError(err).WithFields(fields).Error("failed to publish event")
		return fmt.Errorf("publishing %s: %w", eventType, err)
	}

	logger.Log.WithFields(fields).Debug("event published")
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func newMessage(eventType, source string, data map[string]interface{}) (kafka.Message, Event, error) {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	if runID, ok := data["run_id"].(string); ok {
		event.RunID = runID
	}

	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, event, fmt.Errorf("encoding %s event: %w", eventType, err)
	}

	key := event.RunID
	if key == "" {
		key = event.ID
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "source", Value: []byte(source)},
		},
	}, event, nil
}
