package events

import (
	"context"
	"log"

	"cloud.google.com/go/pubsub"
)

// Handler processes one delivered event. A nil return acknowledges the
// message; an error nacks it so the substrate redelivers.
type Handler func(ctx context.Context, msg *pubsub.Message) error

// Dispatcher routes Pub/Sub subscriptions to registered handlers. Each
// subscription gets its own receive loop; handler invocations are
// independent and may run concurrently.
type Dispatcher struct {
	client   *pubsub.Client
	handlers map[string]Handler
}

// NewDispatcher creates a dispatcher on an existing Pub/Sub client.
func NewDispatcher(client *pubsub.Client) *Dispatcher {
	return &Dispatcher{
		client:   client,
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a subscription name.
func (d *Dispatcher) Register(subscription string, handler Handler) {
	d.handlers[subscription] = handler
}

// Start launches a receive loop per registered subscription and blocks
// until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for name, handler := range d.handlers {
		go d.receive(ctx, name, handler)
	}
	<-ctx.Done()
}

func (d *Dispatcher) receive(ctx context.Context, name string, handler Handler) {
	sub := d.client.Subscription(name)

	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] Error checking subscription %s: %v", name, err)
		return
	}
	if !exists {
		log.Printf("[PubSub] Subscription %s does not exist, handler disabled", name)
		return
	}

	log.Printf("[PubSub] Listening for messages on subscription: %s", name)
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if err := handler(ctx, msg); err != nil {
			log.Printf("[PubSub] Handler for %s failed: %v", name, err)
			msg.Nack()
			return
		}
		msg.Ack()
	})
	if err != nil {
		log.Printf("[PubSub] Error receiving messages on %s: %v", name, err)
	}
}
