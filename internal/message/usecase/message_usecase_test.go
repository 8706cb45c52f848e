package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messagedomain "friendlychat-backend/internal/message/domain"
)

type fakeMessageRepo struct {
	store     map[string]*messagedomain.Message
	createErr error
	updateErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{store: make(map[string]*messagedomain.Message)}
}

func (r *fakeMessageRepo) Create(m *messagedomain.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := *m
	r.store[m.ID] = &copied
	return nil
}

func (r *fakeMessageRepo) FindByID(id string) (*messagedomain.Message, error) {
	m, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMessageRepo) Update(m *messagedomain.Message) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	copied := *m
	r.store[m.ID] = &copied
	return nil
}

type publishedEvent struct {
	previous *messagedomain.Message
	current  messagedomain.Message
}

type fakePublisher struct {
	err    error
	events []publishedEvent
}

func (p *fakePublisher) PublishMessageWrite(_ context.Context, previous *messagedomain.Message, current messagedomain.Message) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{previous: previous, current: current})
	return nil
}

func TestPostMessagePublishesCreation(t *testing.T) {
	repo := newFakeMessageRepo()
	publisher := &fakePublisher{}
	uc := NewMessageUsecase(repo, publisher)

	message, err := uc.PostMessage(context.Background(), "Ada", "hello", "")
	require.NoError(t, err)
	require.NotEmpty(t, message.ID)
	assert.False(t, message.Moderated)

	require.Len(t, publisher.events, 1)
	assert.Nil(t, publisher.events[0].previous, "creation events carry no previous value")
	assert.Equal(t, message.ID, publisher.events[0].current.ID)
}

func TestPostMessageCreateErrorDoesNotPublish(t *testing.T) {
	repo := newFakeMessageRepo()
	repo.createErr = errors.New("db down")
	publisher := &fakePublisher{}
	uc := NewMessageUsecase(repo, publisher)

	_, err := uc.PostMessage(context.Background(), "Ada", "hello", "")
	require.Error(t, err)
	assert.Empty(t, publisher.events)
}

func TestMarkModeratedPublishesPreviousValue(t *testing.T) {
	repo := newFakeMessageRepo()
	publisher := &fakePublisher{}
	uc := NewMessageUsecase(repo, publisher)

	message, err := uc.PostMessage(context.Background(), "Ada", "", "https://example.com/p.png")
	require.NoError(t, err)

	require.NoError(t, uc.MarkModerated(context.Background(), message.ID))

	stored, err := repo.FindByID(message.ID)
	require.NoError(t, err)
	assert.True(t, stored.Moderated)

	require.Len(t, publisher.events, 2)
	update := publisher.events[1]
	require.NotNil(t, update.previous, "moderation update must carry the previous value")
	assert.False(t, update.previous.Moderated)
	assert.True(t, update.current.Moderated)
}

func TestMarkModeratedIsIdempotent(t *testing.T) {
	repo := newFakeMessageRepo()
	publisher := &fakePublisher{}
	uc := NewMessageUsecase(repo, publisher)

	message, err := uc.PostMessage(context.Background(), "Ada", "", "https://example.com/p.png")
	require.NoError(t, err)

	require.NoError(t, uc.MarkModerated(context.Background(), message.ID))
	require.NoError(t, uc.MarkModerated(context.Background(), message.ID))

	assert.Len(t, publisher.events, 2, "second mark must not publish another update")
}

func TestMarkModeratedUnknownMessage(t *testing.T) {
	uc := NewMessageUsecase(newFakeMessageRepo(), &fakePublisher{})
	require.Error(t, uc.MarkModerated(context.Background(), "missing"))
}
