package domain

import "time"

// Message is a single chat message. Exactly one of PhotoURL/Text is
// expected to be populated; neither is enforced at the schema level.
type Message struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	SenderName string    `json:"name" gorm:"not null"`
	PhotoURL   string    `json:"photoUrl,omitempty"`
	Text       string    `json:"text,omitempty"`
	Moderated  bool      `json:"moderated" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
