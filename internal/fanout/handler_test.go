package fanout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendlychat-backend/internal/events"
	messagedomain "friendlychat-backend/internal/message/domain"
	tokendomain "friendlychat-backend/internal/token/domain"
	"friendlychat-backend/pkg/fcm"
)

type fakeRegistry struct {
	mu        sync.Mutex
	tokens    []tokendomain.DeviceToken
	listErr   error
	deleteErr map[string]error
	deleted   []string
}

func (r *fakeRegistry) ListAll() ([]tokendomain.DeviceToken, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.tokens, nil
}

func (r *fakeRegistry) DeleteToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.deleteErr[token]; err != nil {
		return err
	}
	r.deleted = append(r.deleted, token)
	return nil
}

type fakeSender struct {
	calls   [][]string
	lastPay fcm.NotificationData
	results []fcm.SendResult
	err     error
}

func (s *fakeSender) SendToDevices(_ context.Context, tokens []string, notification fcm.NotificationData) ([]fcm.SendResult, error) {
	s.calls = append(s.calls, tokens)
	s.lastPay = notification
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func registryWith(tokens ...string) *fakeRegistry {
	r := &fakeRegistry{}
	for _, t := range tokens {
		r.tokens = append(r.tokens, tokendomain.DeviceToken{ID: t + "-id", Token: t})
	}
	return r
}

func TestHandleSkipsUpdates(t *testing.T) {
	registry := registryWith("t1")
	sender := &fakeSender{}
	handler := NewHandler(registry, sender)

	previous := &messagedomain.Message{ID: "m1", SenderName: "Ada", Text: "hello"}
	current := *previous
	current.Moderated = true

	err := handler.Handle(context.Background(), events.MessageWrite{Previous: previous, Current: current})
	require.NoError(t, err)
	assert.Empty(t, sender.calls, "updates must never dispatch notifications")
}

func TestHandleSendsToFullSnapshot(t *testing.T) {
	registry := registryWith("t1", "t2", "t3")
	sender := &fakeSender{results: []fcm.SendResult{{Token: "t1"}, {Token: "t2"}, {Token: "t3"}}}
	handler := NewHandler(registry, sender)

	err := handler.Handle(context.Background(), events.MessageWrite{
		Current: messagedomain.Message{ID: "m1", SenderName: "Ada", Text: "hello"},
	})
	require.NoError(t, err)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, []string{"t1", "t2", "t3"}, sender.calls[0])
	assert.Empty(t, registry.deleted)
}

func TestHandleEmptyRegistry(t *testing.T) {
	registry := registryWith()
	sender := &fakeSender{}
	handler := NewHandler(registry, sender)

	err := handler.Handle(context.Background(), events.MessageWrite{
		Current: messagedomain.Message{ID: "m1", SenderName: "Ada", Text: "hello"},
	})
	require.NoError(t, err)
	assert.Empty(t, sender.calls)
}

func TestHandleRegistryErrorFails(t *testing.T) {
	registry := &fakeRegistry{listErr: errors.New("db down")}
	sender := &fakeSender{}
	handler := NewHandler(registry, sender)

	err := handler.Handle(context.Background(), events.MessageWrite{
		Current: messagedomain.Message{ID: "m1", SenderName: "Ada", Text: "hello"},
	})
	require.Error(t, err)
	assert.Empty(t, sender.calls)
}

func TestHandleTransportErrorFails(t *testing.T) {
	registry := registryWith("t1")
	sender := &fakeSender{err: errors.New("fcm unreachable")}
	handler := NewHandler(registry, sender)

	err := handler.Handle(context.Background(), events.MessageWrite{
		Current: messagedomain.Message{ID: "m1", SenderName: "Ada", Text: "hello"},
	})
	require.Error(t, err)
	assert.Empty(t, registry.deleted)
}

func TestHandlePrunesPermanentFailuresOnly(t *testing.T) {
	registry := registryWith("t1", "t2", "t3")
	sender := &fakeSender{results: []fcm.SendResult{
		{Token: "t1"},
		{Token: "t2", Err: errors.New("registration token not registered"), Permanent: true},
		{Token: "t3", Err: errors.New("internal")},
	}}
	handler := NewHandler(registry, sender)

	err := handler.Handle(context.Background(), events.MessageWrite{
		Current: messagedomain.Message{ID: "m1", SenderName: "Ada", Text: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, registry.deleted)
}

func TestHandleDeleteFailureNotEscalated(t *testing.T) {
	registry := registryWith("t1", "t2")
	registry.deleteErr = map[string]error{"t1": errors.New("db down")}
	sender := &fakeSender{results: []fcm.SendResult{
		{Token: "t1", Err: errors.New("unregistered"), Permanent: true},
		{Token: "t2", Err: errors.New("invalid token"), Permanent: true},
	}}
	handler := NewHandler(registry, sender)

	err := handler.Handle(context.Background(), events.MessageWrite{
		Current: messagedomain.Message{ID: "m1", SenderName: "Ada", Text: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, registry.deleted)
}

func TestHandleMessageDecodesPreviousValue(t *testing.T) {
	registry := registryWith("t1")
	sender := &fakeSender{results: []fcm.SendResult{{Token: "t1"}}}
	handler := NewHandler(registry, sender)

	update := []byte(`{"previous":{"id":"m1","name":"Ada","text":"hi"},"current":{"id":"m1","name":"Ada","text":"hi","moderated":true}}`)
	require.NoError(t, handler.HandleMessage(context.Background(), &pubsub.Message{Data: update}))
	assert.Empty(t, sender.calls)

	creation := []byte(`{"previous":null,"current":{"id":"m2","name":"Ada","text":"hi"}}`)
	require.NoError(t, handler.HandleMessage(context.Background(), &pubsub.Message{Data: creation}))
	assert.Len(t, sender.calls, 1)
}

func TestBuildNotification(t *testing.T) {
	longText := strings.Repeat("x", 150)

	tests := []struct {
		name     string
		message  messagedomain.Message
		expected fcm.NotificationData
	}{
		{
			name:    "text message",
			message: messagedomain.Message{SenderName: "Ada", Text: "hello there"},
			expected: fcm.NotificationData{
				Title: "Ada posted a message",
				Body:  "hello there",
				Icon:  "/images/profile_placeholder.png",
			},
		},
		{
			name:    "image message",
			message: messagedomain.Message{SenderName: "Grace", PhotoURL: "https://example.com/p.png"},
			expected: fcm.NotificationData{
				Title: "Grace posted an image",
				Body:  "",
				Icon:  "https://example.com/p.png",
			},
		},
		{
			name:    "long text is truncated",
			message: messagedomain.Message{SenderName: "Ada", Text: longText},
			expected: fcm.NotificationData{
				Title: "Ada posted a message",
				Body:  longText[:97] + "...",
				Icon:  "/images/profile_placeholder.png",
			},
		},
		{
			name:    "text at the limit is untouched",
			message: messagedomain.Message{SenderName: "Ada", Text: strings.Repeat("y", 100)},
			expected: fcm.NotificationData{
				Title: "Ada posted a message",
				Body:  strings.Repeat("y", 100),
				Icon:  "/images/profile_placeholder.png",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildNotification(tt.message))
		})
	}
}
