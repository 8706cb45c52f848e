package domain

import "time"

// DeviceToken represents a push notification device token.
// Entries are registered by clients and removed only when the push
// service reports the token as permanently invalid.
type DeviceToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Token      string    `json:"-" gorm:"uniqueIndex;not null"` // Don't expose token in JSON
	DeviceInfo string    `json:"device_info"`                   // Browser/device metadata
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
