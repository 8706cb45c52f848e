package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/pubsub"

	"friendlychat-backend/internal/events"
	"friendlychat-backend/pkg/vision"
)

// Classifier submits an object to the external safety analyzer
type Classifier interface {
	DetectSafeSearch(ctx context.Context, bucket, object string) (*vision.SafeSearchResult, error)
}

// ObjectStore provides byte-level access to uploaded objects
type ObjectStore interface {
	Download(ctx context.Context, bucket, object string) ([]byte, error)
	Upload(ctx context.Context, bucket, object string, data []byte, contentType string) error
}

// MessageModerator marks the message an object belongs to as moderated
type MessageModerator interface {
	MarkModerated(ctx context.Context, id string) error
}

// Handler checks uploaded images for adult or violent content and blurs
// the flagged ones in place.
type Handler struct {
	classifier Classifier
	objects    ObjectStore
	messages   MessageModerator
}

// NewHandler creates a new moderation handler
func NewHandler(classifier Classifier, objects ObjectStore, messages MessageModerator) *Handler {
	return &Handler{
		classifier: classifier,
		objects:    objects,
		messages:   messages,
	}
}

// HandleMessage decodes a storage lifecycle event and dispatches it. The
// lifecycle state is carried in the eventType message attribute.
func (h *Handler) HandleMessage(ctx context.Context, msg *pubsub.Message) error {
	var event events.ObjectChange
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return fmt.Errorf("failed to decode object change event: %w", err)
	}
	event.EventType = msg.Attributes["eventType"]
	return h.Handle(ctx, event)
}

// Handle classifies the object and, if flagged, runs the transform
// pipeline: download, blur, re-upload, mark the message moderated. The
// message flag is only touched after the re-upload succeeded; if the flag
// update then fails, the object stays blurred and the error propagates.
func (h *Handler) Handle(ctx context.Context, event events.ObjectChange) error {
	if event.EventType == events.ObjectDelete {
		log.Printf("[Moderation] This is a deletion event: %s/%s", event.Bucket, event.Name)
		return nil
	}

	// Resolve the owning message up front so a malformed object name can
	// never leave a half-transformed state behind.
	messageID, err := messageIDFromObjectName(event.Name)
	if err != nil {
		log.Printf("[Moderation] Skipping malformed object name %q: %v", event.Name, err)
		return err
	}

	result, err := h.classifier.DetectSafeSearch(ctx, event.Bucket, event.Name)
	if err != nil {
		return fmt.Errorf("failed to classify %s/%s: %w", event.Bucket, event.Name, err)
	}
	if !result.Adult && !result.Violence {
		return nil
	}

	log.Printf("[Moderation] The image %s/%s has been detected as inappropriate (adult=%v, violence=%v)",
		event.Bucket, event.Name, result.Adult, result.Violence)

	data, err := h.objects.Download(ctx, event.Bucket, event.Name)
	if err != nil {
		return fmt.Errorf("failed to download flagged object: %w", err)
	}

	blurred, err := blurImage(data, event.Name)
	if err != nil {
		return fmt.Errorf("failed to blur flagged object: %w", err)
	}

	if err := h.objects.Upload(ctx, event.Bucket, event.Name, blurred, event.ContentType); err != nil {
		return fmt.Errorf("failed to re-upload blurred object: %w", err)
	}
	log.Printf("[Moderation] Blurred image uploaded to %s/%s", event.Bucket, event.Name)

	if err := h.messages.MarkModerated(ctx, messageID); err != nil {
		// The object is already blurred; the flag is informational.
		return fmt.Errorf("object blurred but message %s not marked moderated: %w", messageID, err)
	}
	return nil
}

// messageIDFromObjectName extracts the owning message id from an object
// name of the form <uid>/<messageID>/<filename>.
func messageIDFromObjectName(name string) (string, error) {
	segments := strings.Split(name, "/")
	if len(segments) < 2 || segments[1] == "" {
		return "", fmt.Errorf("object name %q does not embed a message id", name)
	}
	return segments[1], nil
}
