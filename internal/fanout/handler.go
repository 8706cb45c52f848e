package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"cloud.google.com/go/pubsub"

	"friendlychat-backend/internal/events"
	messagedomain "friendlychat-backend/internal/message/domain"
	tokendomain "friendlychat-backend/internal/token/domain"
	"friendlychat-backend/pkg/fcm"
)

const (
	maxBodyLength   = 100
	truncatedLength = 97
	defaultIcon     = "/images/profile_placeholder.png"
)

// TokenRegistry provides a snapshot of registered device tokens and
// removal of individual entries
type TokenRegistry interface {
	ListAll() ([]tokendomain.DeviceToken, error)
	DeleteToken(token string) error
}

// Sender delivers one payload to many tokens in a single batched dispatch
type Sender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]fcm.SendResult, error)
}

// Handler sends a push notification to every registered device when a new
// message is posted, pruning tokens the push service rejects permanently.
type Handler struct {
	registry TokenRegistry
	push     Sender
}

// NewHandler creates a new fanout handler
func NewHandler(registry TokenRegistry, push Sender) *Handler {
	return &Handler{
		registry: registry,
		push:     push,
	}
}

// HandleMessage decodes a message-write event and dispatches it.
func (h *Handler) HandleMessage(ctx context.Context, msg *pubsub.Message) error {
	var event events.MessageWrite
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return fmt.Errorf("failed to decode message write event: %w", err)
	}
	return h.Handle(ctx, event)
}

// Handle notifies all registered devices about a newly created message.
// Updates never notify; that is what keeps the moderation flag update from
// re-triggering a notification for the same message.
func (h *Handler) Handle(ctx context.Context, event events.MessageWrite) error {
	if event.Previous != nil {
		return nil
	}

	notification := buildNotification(event.Current)

	snapshot, err := h.registry.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list device tokens: %w", err)
	}
	if len(snapshot) == 0 {
		log.Printf("[Fanout] No device tokens registered, skipping notification for message %s", event.Current.ID)
		return nil
	}

	tokens := make([]string, len(snapshot))
	for i, t := range snapshot {
		tokens[i] = t.Token
	}

	results, err := h.push.SendToDevices(ctx, tokens, notification)
	if err != nil {
		return fmt.Errorf("failed to send notifications: %w", err)
	}

	h.pruneInvalidTokens(results)
	return nil
}

// pruneInvalidTokens removes tokens the push service rejected permanently.
// Removals run concurrently and are awaited jointly; individual failures
// are logged, never escalated, since a stale token only costs one more
// no-op delivery later.
func (h *Handler) pruneInvalidTokens(results []fcm.SendResult) {
	var wg sync.WaitGroup
	for _, result := range results {
		if result.Err == nil {
			continue
		}
		if !result.Permanent {
			log.Printf("[Fanout] Failure sending notification to %s: %v", result.Token, result.Err)
			continue
		}

		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			if err := h.registry.DeleteToken(token); err != nil {
				log.Printf("[Fanout] Failed to remove stale token %s: %v", token, err)
				return
			}
			log.Printf("[Fanout] Removed stale token %s", token)
		}(result.Token)
	}
	wg.Wait()
}

// buildNotification composes the payload for a newly created message.
func buildNotification(message messagedomain.Message) fcm.NotificationData {
	kind := "an image"
	if message.Text != "" {
		kind = "a message"
	}

	body := message.Text
	if runes := []rune(body); len(runes) > maxBodyLength {
		body = string(runes[:truncatedLength]) + "..."
	}

	icon := message.PhotoURL
	if icon == "" {
		icon = defaultIcon
	}

	return fcm.NotificationData{
		Title: fmt.Sprintf("%s posted %s", message.SenderName, kind),
		Body:  body,
		Icon:  icon,
	}
}
