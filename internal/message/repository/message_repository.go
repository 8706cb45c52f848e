package repository

import (
	"errors"

	"gorm.io/gorm"

	messagedomain "friendlychat-backend/internal/message/domain"
)

// MessageRepository defines keyed access to the messages collection
type MessageRepository interface {
	Create(message *messagedomain.Message) error
	FindByID(id string) (*messagedomain.Message, error)
	Update(message *messagedomain.Message) error
}

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new instance of messageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

// Create appends a new message
func (r *messageRepository) Create(message *messagedomain.Message) error {
	return r.db.Create(message).Error
}

// FindByID returns a message by its key, or nil when it does not exist
func (r *messageRepository) FindByID(id string) (*messagedomain.Message, error) {
	var message messagedomain.Message
	err := r.db.Where("id = ?", id).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// Update saves all fields of an existing message
func (r *messageRepository) Update(message *messagedomain.Message) error {
	return r.db.Save(message).Error
}
