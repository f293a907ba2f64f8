package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/adminboard/apiserver/internal/mq"
	"github.com/adminboard/apiserver/internal/storage"
	"github.com/adminboard/apiserver/internal/store"
	"github.com/adminboard/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.ChangeEvent
	err    error
}

func (p *recordingPublisher) PublishChange(ctx context.Context, event mq.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func newStore(t *testing.T) *store.MemStorage {
	t.Helper()
	s, err := store.NewMemStorage()
	require.NoError(t, err)
	return s
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{name: "defaults", limit: 0, offset: 0, wantLimit: 10, wantOffset: 0},
		{name: "negative", limit: -5, offset: -1, wantLimit: 10, wantOffset: 0},
		{name: "capped", limit: 500, offset: 3, wantLimit: 100, wantOffset: 3},
		{name: "kept", limit: 25, offset: 50, wantLimit: 25, wantOffset: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := clampPage(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestOrderServiceList(t *testing.T) {
	svc := NewOrderService(newStore(t))

	orders, total, err := svc.List(context.Background(), store.OrderQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 3, total)

	orders, total, err = svc.List(context.Background(), store.OrderQuery{Search: "chen"})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, total)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestOrderServicePublishesChanges(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewOrderService(newStore(t), WithPublisher(pub))

	order, err := svc.Create(ctx, types.NewOrder{CustomerName: "Ann", CustomerEmail: "ann@example.com", Status: types.OrderStatusPending})
	require.NoError(t, err)
	assert.Equal(t, 12348, order.ID)

	amount := 5.0
	_, err = svc.Update(ctx, order.ID, types.OrderPatch{Amount: &amount})
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = svc.Update(ctx, order.ID, types.OrderPatch{Amount: &amount})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.Len(t, pub.events, 3)
	assert.Equal(t, []string{mq.ActionCreated, mq.ActionUpdated, mq.ActionDeleted},
		[]string{pub.events[0].Action, pub.events[1].Action, pub.events[2].Action})
	for _, event := range pub.events {
		assert.Equal(t, mq.KindOrder, event.Kind)
		assert.Equal(t, 12348, event.ID)
		assert.False(t, event.At.IsZero())
	}
}

func TestPublishFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewTaskService(newStore(t), WithPublisher(pub), WithLogger(zap.New(core)))

	task, err := svc.Create(context.Background(), types.NewTask{
		Title:    "Retry",
		Status:   types.TaskStatusTodo,
		Priority: types.TaskPriorityLow,
		Category: types.TaskCategoryDocs,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, task.ID)
	assert.Equal(t, 1, logs.FilterMessage("publish change event").Len())
}

func TestTaskServiceFilter(t *testing.T) {
	svc := NewTaskService(newStore(t))

	todo, err := svc.List(context.Background(), store.TaskFilter{Status: types.TaskStatusTodo})
	require.NoError(t, err)
	assert.Len(t, todo, 2)

	all, err := svc.List(context.Background(), store.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestEventServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewEventService(newStore(t), WithPublisher(pub))

	events, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Team Meeting", events[0].Title)

	title := "Renamed"
	updated, err := svc.Update(ctx, events[1].ID, types.EventPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, events[1].Start, updated.Start)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.Len(t, pub.events, 1)
	assert.Equal(t, mq.KindEvent, pub.events[0].Kind)
}

func TestMetricsService(t *testing.T) {
	ctx := context.Background()
	svc := NewMetricsService(newStore(t))

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 124592.0, latest.Revenue)

	created, err := svc.Create(ctx, types.NewMetrics{Revenue: 130000, Users: 8300, Orders: 1450, ConversionRate: 3.3})
	require.NoError(t, err)

	latest, err = svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, created, latest)

	chart, err := svc.ChartData(ctx)
	require.NoError(t, err)
	assert.Len(t, chart.Labels, 7)
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newStore(t))

	user, err := svc.Create(ctx, types.NewUser{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	got, err := svc.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	got, err = svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

type memObjects struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemObjects() *memObjects {
	return &memObjects{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *memObjects) EnsureBucket(ctx context.Context) error { return nil }

func (m *memObjects) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memObjects) Get(ctx context.Context, key string) (storage.Object, error) {
	data, ok := m.objects[key]
	if !ok {
		return storage.Object{}, storage.ErrObjectNotFound
	}
	return storage.Object{Body: io.NopCloser(bytes.NewReader(data)), ContentType: m.types[key], Size: int64(len(data))}, nil
}

func (m *memObjects) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memObjects) Bucket() string { return "avatars" }

func TestAvatarService(t *testing.T) {
	ctx := context.Background()
	backend := newMemObjects()
	svc := NewAvatarService(storage.NewStorage(backend))

	key, err := svc.Upload(ctx, "image/png", 4, strings.NewReader("\x89PNG"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "avatars/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	obj, err := svc.Open(ctx, key)
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Equal(t, "image/png", obj.ContentType)

	_, err = svc.Upload(ctx, "text/plain", 4, strings.NewReader("text"))
	assert.ErrorIs(t, err, ErrInvalidAvatar)

	_, err = svc.Upload(ctx, "image/png", MaxAvatarSize+1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidAvatar)

	for _, bad := range []string{"secrets.txt", "avatars/../x", "avatars/", "avatars/not-a-uuid.png"} {
		_, err = svc.Open(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidAvatarKey, bad)
	}

	_, err = svc.Open(ctx, "avatars/7f3c2b8e-1d4a-4c55-9a0e-2b6f1c9d8e7a.png")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestAvatarServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewAvatarService(storage.NewStorage(newMemObjects()))

	key, err := svc.Upload(ctx, "image/png", 4, strings.NewReader("\x89PNG"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, key))

	_, err = svc.Open(ctx, key)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, key), storage.ErrObjectNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "avatars/../x"), ErrInvalidAvatarKey)
}
