package events

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	messagedomain "friendlychat-backend/internal/message/domain"
)

// Publisher emits message-write events for the fanout subscription.
type Publisher struct {
	topic *pubsub.Topic
}

// NewPublisher creates a publisher on an existing Pub/Sub client.
func NewPublisher(client *pubsub.Client, topic string) *Publisher {
	return &Publisher{topic: client.Topic(topic)}
}

// PublishMessageWrite publishes one write event carrying the previous
// value (nil on creation) and the new value at that key.
func (p *Publisher) PublishMessageWrite(ctx context.Context, previous *messagedomain.Message, current messagedomain.Message) error {
	data, err := json.Marshal(MessageWrite{Previous: previous, Current: current})
	if err != nil {
		return fmt.Errorf("failed to marshal message write event: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish message write event: %w", err)
	}
	return nil
}

// Stop flushes pending publishes.
func (p *Publisher) Stop() {
	p.topic.Stop()
}
