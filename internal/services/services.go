package services

import (
	"context"
	"time"

	"github.com/adminboard/apiserver/internal/mq"
	"github.com/adminboard/apiserver/internal/store"
	"github.com/adminboard/apiserver/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Pagination bounds applied to list calls.
const (
	DefaultLimit = store.DefaultOrderLimit
	MaxLimit     = 100
)

// Option configures the collaborators shared by every service.
type Option func(*base)

// WithPublisher sets where change notifications are sent.
func WithPublisher(p mq.Publisher) Option {
	return func(b *base) {
		if p != nil {
			b.publisher = p
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.logger = l
		}
	}
}

// base carries the publisher and logger every service uses.
type base struct {
	kind      string
	publisher mq.Publisher
	logger    *zap.Logger
}

func newBase(kind string, opts []Option) base {
	b := base{
		kind:      kind,
		publisher: mq.Discard,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// notify announces a change. Failures are logged and never returned: the
// store write has already happened.
func (b base) notify(ctx context.Context, action string, id int) {
	event := mq.ChangeEvent{Kind: b.kind, Action: action, ID: id, At: time.Now().UTC()}
	if err := b.publisher.PublishChange(ctx, event); err != nil {
		b.logger.Warn("publish change event",
			zap.String("kind", b.kind),
			zap.String("action", action),
			zap.Int("id", id),
			zap.Error(err),
		)
	}
}

func (b base) span(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("entity.kind", b.kind))
	return telemetry.StartSpan(ctx, b.kind+"."+op, attrs...)
}

// clampPage normalizes a limit/offset pair.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func idAttr(id int) attribute.KeyValue {
	return attribute.Int("entity.id", id)
}
