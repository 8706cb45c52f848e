package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"cloud.google.com/go/pubsub"

	"friendlychat-backend/internal/events"
	messagedomain "friendlychat-backend/internal/message/domain"
)

const (
	botName     = "Firebase Bot"
	botPhotoURL = "/images/firebase-logo.png"
)

// MessagePoster appends a message to the messages collection
type MessagePoster interface {
	PostMessage(ctx context.Context, senderName, text, photoURL string) (*messagedomain.Message, error)
}

// Handler welcomes new users into the chat.
type Handler struct {
	messages MessagePoster
}

// NewHandler creates a new onboarding handler
func NewHandler(messages MessagePoster) *Handler {
	return &Handler{messages: messages}
}

// HandleMessage decodes an account-created event and dispatches it.
func (h *Handler) HandleMessage(ctx context.Context, msg *pubsub.Message) error {
	var event events.AccountCreated
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return fmt.Errorf("failed to decode account created event: %w", err)
	}
	return h.Handle(ctx, event)
}

// Handle appends one welcome message for the new user. No prior state is
// read; a failed write propagates so the substrate can retry.
func (h *Handler) Handle(ctx context.Context, event events.AccountCreated) error {
	log.Printf("[Onboarding] A new user signed-in for the first time: %s", event.DisplayName)

	text := fmt.Sprintf("%s signed-in for the first time! Welcome!", event.DisplayName)
	if _, err := h.messages.PostMessage(ctx, botName, text, botPhotoURL); err != nil {
		return fmt.Errorf("failed to post welcome message: %w", err)
	}
	return nil
}
