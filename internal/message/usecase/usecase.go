package usecase

import (
	"context"

	messagedomain "friendlychat-backend/internal/message/domain"
)

// MessageUsecase is the single write path for the messages collection.
// Every mutation publishes a write event carrying the previous value, which
// is what lets the notification fanout distinguish creations from updates.
type MessageUsecase interface {
	PostMessage(ctx context.Context, senderName, text, photoURL string) (*messagedomain.Message, error)
	MarkModerated(ctx context.Context, id string) error
}

// EventPublisher emits message-write events to the trigger substrate
type EventPublisher interface {
	PublishMessageWrite(ctx context.Context, previous *messagedomain.Message, current messagedomain.Message) error
}
