package events

import (
	messagedomain "friendlychat-backend/internal/message/domain"
)

// Storage lifecycle event types, matching the eventType attribute of
// Cloud Storage Pub/Sub notifications.
const (
	ObjectFinalize       = "OBJECT_FINALIZE"
	ObjectMetadataUpdate = "OBJECT_METADATA_UPDATE"
	ObjectDelete         = "OBJECT_DELETE"
)

// AccountCreated is delivered when a user signs in for the first time.
type AccountCreated struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
}

// ObjectChange is delivered on every storage object lifecycle change.
// EventType is carried in the message attributes, not the payload.
type ObjectChange struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	EventType   string `json:"-"`
}

// MessageWrite is delivered on every write to the messages collection.
// Previous is nil when the write created the message.
type MessageWrite struct {
	Previous *messagedomain.Message `json:"previous"`
	Current  messagedomain.Message  `json:"current"`
}
