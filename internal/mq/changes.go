package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Entity kinds carried in change events.
const (
	KindOrder   = "order"
	KindTask    = "task"
	KindEvent   = "event"
	KindMetrics = "metrics"
	KindUser    = "user"
)

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent announces that a stored record was created, updated or deleted.
type ChangeEvent struct {
	Kind   string    `json:"kind"`
	Action string    `json:"action"`
	ID     int       `json:"id"`
	At     time.Time `json:"at"`
}

// Publisher announces store changes to interested consumers.
type Publisher interface {
	PublishChange(ctx context.Context, event ChangeEvent) error
}

// Notifier publishes change events as JSON on a single channel.
type Notifier struct {
	mq      *MQ
	channel string
}

func NewNotifier(m *MQ, channel string) *Notifier {
	return &Notifier{mq: m, channel: channel}
}

// PublishChange encodes event and sends it with kind and action attributes.
func (n *Notifier) PublishChange(ctx context.Context, event ChangeEvent) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	attrs := map[string]string{
		"kind":   event.Kind,
		"action": event.Action,
	}
	if _, err := n.mq.Publish(ctx, n.channel, data, attrs); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Watch subscribes to the change channel and hands each decoded event to fn.
// It blocks for as long as the backend subscription does.
// Messages that do not decode are acknowledged and skipped.
func (n *Notifier) Watch(ctx context.Context, fn func(ChangeEvent) error) error {
	return n.mq.Subscribe(ctx, n.channel, func(ctx context.Context, msg Message) error {
		var event ChangeEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return nil
		}
		return fn(event)
	})
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) PublishChange(context.Context, ChangeEvent) error { return nil }
