package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	messagedomain "friendlychat-backend/internal/message/domain"
	"friendlychat-backend/internal/message/repository"
)

// messageUsecase implements MessageUsecase interface
type messageUsecase struct {
	messageRepo repository.MessageRepository
	publisher   EventPublisher
}

// NewMessageUsecase creates a new instance of messageUsecase
func NewMessageUsecase(messageRepo repository.MessageRepository, publisher EventPublisher) MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		publisher:   publisher,
	}
}

// PostMessage appends a new message and publishes a creation event
// (previous value nil).
func (u *messageUsecase) PostMessage(ctx context.Context, senderName, text, photoURL string) (*messagedomain.Message, error) {
	message := &messagedomain.Message{
		ID:         uuid.New().String(),
		SenderName: senderName,
		Text:       text,
		PhotoURL:   photoURL,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := u.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := u.publisher.PublishMessageWrite(ctx, nil, *message); err != nil {
		return nil, fmt.Errorf("message %s created but event not published: %w", message.ID, err)
	}
	return message, nil
}

// MarkModerated flips the moderated flag and publishes an update event
// carrying the previous value. The flag transitions false to true at most
// once; marking an already-moderated message is a no-op.
func (u *messageUsecase) MarkModerated(ctx context.Context, id string) error {
	previous, err := u.messageRepo.FindByID(id)
	if err != nil {
		return fmt.Errorf("failed to load message %s: %w", id, err)
	}
	if previous == nil {
		return fmt.Errorf("message %s not found", id)
	}
	if previous.Moderated {
		return nil
	}

	updated := *previous
	updated.Moderated = true
	updated.UpdatedAt = time.Now()

	if err := u.messageRepo.Update(&updated); err != nil {
		return fmt.Errorf("failed to update message %s: %w", id, err)
	}

	if err := u.publisher.PublishMessageWrite(ctx, previous, updated); err != nil {
		return fmt.Errorf("message %s updated but event not published: %w", id, err)
	}
	return nil
}
