package mq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adminboard/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	data    []byte
	attrs   map[string]string
}

// memBackend delivers published messages to subscribers synchronously.
type memBackend struct {
	mu       sync.Mutex
	sent     []published
	handlers map[string][]Handler
	fail     error
}

func newMemBackend() *memBackend {
	return &memBackend{handlers: make(map[string][]Handler)}
}

func (b *memBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	b.mu.Lock()
	if b.fail != nil {
		b.mu.Unlock()
		return "", b.fail
	}
	b.sent = append(b.sent, published{channel: channel, data: data, attrs: attrs})
	handlers := append([]Handler(nil), b.handlers[channel]...)
	b.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, Message{ID: "m", Data: data, Attributes: attrs}); err != nil {
			return "", err
		}
	}
	return "m", nil
}

func (b *memBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	b.mu.Lock()
	b.handlers[channel] = append(b.handlers[channel], handler)
	b.mu.Unlock()
	return nil
}

func (b *memBackend) Close() error { return nil }

func TestNotifierPublishChange(t *testing.T) {
	backend := newMemBackend()
	notifier := NewNotifier(New(backend), "adminboard.changes")

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	err := notifier.PublishChange(context.Background(), ChangeEvent{
		Kind:   KindOrder,
		Action: ActionCreated,
		ID:     12348,
		At:     at,
	})
	require.NoError(t, err)

	require.Len(t, backend.sent, 1)
	msg := backend.sent[0]
	assert.Equal(t, "adminboard.changes", msg.channel)
	assert.Equal(t, map[string]string{"kind": "order", "action": "created"}, msg.attrs)
	assert.JSONEq(t, `{"kind":"order","action":"created","id":12348,"at":"2024-06-01T12:00:00Z"}`, string(msg.data))
}

func TestNotifierStampsTime(t *testing.T) {
	backend := newMemBackend()
	notifier := NewNotifier(New(backend), "changes")

	require.NoError(t, notifier.PublishChange(context.Background(), ChangeEvent{Kind: KindTask, Action: ActionDeleted, ID: 2}))

	var event ChangeEvent
	require.NoError(t, json.Unmarshal(backend.sent[0].data, &event))
	assert.False(t, event.At.IsZero())
}

func TestNotifierPublishError(t *testing.T) {
	backend := newMemBackend()
	backend.fail = errors.New("broker down")
	notifier := NewNotifier(New(backend), "changes")

	err := notifier.PublishChange(context.Background(), ChangeEvent{Kind: KindEvent, Action: ActionUpdated, ID: 1})
	assert.ErrorIs(t, err, backend.fail)
}

func TestNotifierWatch(t *testing.T) {
	backend := newMemBackend()
	notifier := NewNotifier(New(backend), "changes")

	var got []ChangeEvent
	require.NoError(t, notifier.Watch(context.Background(), func(event ChangeEvent) error {
		got = append(got, event)
		return nil
	}))

	ctx := context.Background()
	_, err := backend.Publish(ctx, "changes", []byte("not json"), nil)
	require.NoError(t, err)
	require.NoError(t, notifier.PublishChange(ctx, ChangeEvent{Kind: KindMetrics, Action: ActionCreated, ID: 2}))

	require.Len(t, got, 1)
	assert.Equal(t, KindMetrics, got[0].Kind)
	assert.Equal(t, 2, got[0].ID)
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.PublishChange(context.Background(), ChangeEvent{}))
}

func TestNewFromConfig(t *testing.T) {
	_, err := NewFromConfig(context.Background(), config.MQConfig{Backend: "none"})
	assert.ErrorIs(t, err, ErrNoBackend)

	_, err = NewFromConfig(context.Background(), config.MQConfig{})
	assert.ErrorIs(t, err, ErrNoBackend)

	_, err = NewFromConfig(context.Background(), config.MQConfig{Backend: "kafka"})
	assert.Error(t, err)

	_, err = NewFromConfig(context.Background(), config.MQConfig{Backend: "rabbitmq"})
	assert.Error(t, err)

	_, err = NewFromConfig(context.Background(), config.MQConfig{Backend: "pubsub"})
	assert.Error(t, err)
}

func TestHeadersToAttributes(t *testing.T) {
	assert.Nil(t, headersToAttributes(nil))
	attrs := headersToAttributes(amqp.Table{
		"kind":   "order",
		"action": []byte("created"),
		"retry":  int32(2),
	})
	assert.Equal(t, map[string]string{"kind": "order", "action": "created", "retry": "2"}, attrs)
}
