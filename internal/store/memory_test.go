package store

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/adminboard/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

// tickingClock returns a clock that advances one second per call.
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func newEmptyStore(t *testing.T) *MemStorage {
	t.Helper()
	s, err := NewMemStorage(WithoutSeed(), WithClock(tickingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	return s
}

func sampleOrder(name string) types.NewOrder {
	return types.NewOrder{
		CustomerID:    7,
		CustomerName:  name,
		CustomerEmail: name + "@example.com",
		Amount:        10.5,
		Status:        types.OrderStatusPending,
	}
}

func sampleTask(title string) types.NewTask {
	return types.NewTask{
		Title:    title,
		Status:   types.TaskStatusTodo,
		Priority: types.TaskPriorityLow,
		Category: types.TaskCategoryBackend,
	}
}

func TestSeededStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStorage()
	require.NoError(t, err)

	total, err := s.GetOrdersCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	tasks, err := s.GetTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 4)

	events, err := s.GetEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	metrics, err := s.GetLatestMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 124592.0, metrics.Revenue)
	assert.Equal(t, 8249, metrics.Users)

	for _, id := range []int{12345, 12346, 12347} {
		_, err := s.GetOrder(ctx, id)
		assert.NoError(t, err, "seeded order %d", id)
	}

	order, err := s.CreateOrder(ctx, sampleOrder("alice"))
	require.NoError(t, err)
	assert.Equal(t, 12348, order.ID)
}

func TestEmptyStoreStartsSequences(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	assert.Equal(t, 12345, s.orderIDs.peek())
	assert.Equal(t, 1, s.taskIDs.peek())

	order, err := s.CreateOrder(ctx, sampleOrder("alice"))
	require.NoError(t, err)
	assert.Equal(t, 12345, order.ID)

	task, err := s.CreateTask(ctx, sampleTask("write docs"))
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)

	user, err := s.CreateUser(ctx, types.NewUser{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	_, err = s.GetLatestMetrics(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	created, err := s.CreateOrder(ctx, types.NewOrder{
		CustomerID:     3,
		CustomerName:   "Bob",
		CustomerEmail:  "bob@example.com",
		CustomerAvatar: ptr("https://example.com/bob.png"),
		Amount:         99.99,
		Status:         types.OrderStatusCompleted,
	})
	require.NoError(t, err)

	got, err := s.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.False(t, got.CreatedAt.IsZero())

	task, err := s.CreateTask(ctx, sampleTask("ship it"))
	require.NoError(t, err)
	assert.Equal(t, 0, task.Progress)
	assert.Nil(t, task.Description)

	event, err := s.CreateEvent(ctx, types.NewEvent{
		Title: "Standup",
		Start: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 1, 9, 15, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultEventColor, event.Color)

	gotEvent, err := s.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event, gotEvent)
}

func TestIDsStrictlyIncrease(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	prev := 0
	for i := 0; i < 5; i++ {
		order, err := s.CreateOrder(ctx, sampleOrder("c"))
		require.NoError(t, err)
		assert.Greater(t, order.ID, prev)
		prev = order.ID
	}

	// Deleted ids are not handed out again.
	ok, err := s.DeleteOrder(ctx, prev)
	require.NoError(t, err)
	require.True(t, ok)

	next, err := s.CreateOrder(ctx, sampleOrder("c"))
	require.NoError(t, err)
	assert.Equal(t, prev+1, next.ID)
}

func TestUpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	_, err := s.UpdateOrder(ctx, 99999, types.OrderPatch{Amount: ptr(1.0)})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateTask(ctx, 42, types.TaskPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateEvent(ctx, 42, types.EventPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	total, err := s.GetOrdersCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	tasks, err := s.GetTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	input := sampleTask("API integration")
	input.Description = ptr("Integrate third-party API")
	input.AssigneeID = ptr(3)
	input.AssigneeName = ptr("Michael Chen")
	input.Progress = ptr(60)
	task, err := s.CreateTask(ctx, input)
	require.NoError(t, err)

	status := types.TaskStatusDone
	updated, err := s.UpdateTask(ctx, task.ID, types.TaskPatch{Status: &status})
	require.NoError(t, err)

	want := task
	want.Status = types.TaskStatusDone
	assert.Equal(t, want, updated)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	order, err := s.CreateOrder(ctx, sampleOrder("dana"))
	require.NoError(t, err)
	completed := types.OrderStatusCompleted
	updatedOrder, err := s.UpdateOrder(ctx, order.ID, types.OrderPatch{Status: &completed, Amount: ptr(12.0)})
	require.NoError(t, err)
	assert.Equal(t, order.ID, updatedOrder.ID)
	assert.Equal(t, order.CreatedAt, updatedOrder.CreatedAt)
	assert.Equal(t, order.CustomerName, updatedOrder.CustomerName)
	assert.Equal(t, 12.0, updatedOrder.Amount)
	assert.Equal(t, types.OrderStatusCompleted, updatedOrder.Status)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	event, err := s.CreateEvent(ctx, types.NewEvent{Title: "Review"})
	require.NoError(t, err)

	ok, err := s.DeleteEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err = s.DeleteEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteOrder(ctx, 12345)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteTask(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrdersNewestFirstWithPagination(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := s.CreateOrder(ctx, sampleOrder(name))
		require.NoError(t, err)
	}

	all, err := s.GetOrders(ctx, OrderQuery{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}
	assert.Equal(t, "d", all[0].CustomerName)

	page, err := s.GetOrders(ctx, OrderQuery{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[1:3], page)

	past, err := s.GetOrders(ctx, OrderQuery{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestOrdersDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	for i := 0; i < 12; i++ {
		_, err := s.CreateOrder(ctx, sampleOrder("bulk"))
		require.NoError(t, err)
	}

	orders, err := s.GetOrders(ctx, OrderQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, DefaultOrderLimit)
}

func TestOrdersHugeLimit(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStorage()
	require.NoError(t, err)

	all, err := s.GetOrders(ctx, OrderQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	var page []types.Order
	require.NotPanics(t, func() {
		page, err = s.GetOrders(ctx, OrderQuery{Limit: math.MaxInt, Offset: 1})
	})
	require.NoError(t, err)
	assert.Equal(t, all[1:], page)

	page, err = s.GetOrders(ctx, OrderQuery{Limit: math.MaxInt, Offset: math.MaxInt})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestOrdersSameTimestampFallsBackToID(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewMemStorage(WithoutSeed(), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.CreateOrder(ctx, sampleOrder(name))
		require.NoError(t, err)
	}

	orders, err := s.GetOrders(ctx, OrderQuery{})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []int{12347, 12346, 12345}, []int{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestSearchOrders(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStorage()
	require.NoError(t, err)

	byName, err := s.GetOrders(ctx, OrderQuery{Search: "emily"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Emily Davis", byName[0].CustomerName)

	byEmail, err := s.GetOrders(ctx, OrderQuery{Search: "MICHAEL@"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)

	byID, err := s.GetOrders(ctx, OrderQuery{Search: "12347"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, 12347, byID[0].ID)

	count, err := s.CountOrders(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = s.CountOrders(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTasksNewestFirstAndFilter(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	first, err := s.CreateTask(ctx, sampleTask("first"))
	require.NoError(t, err)
	second := sampleTask("second")
	second.Status = types.TaskStatusDone
	_, err = s.CreateTask(ctx, second)
	require.NoError(t, err)

	tasks, err := s.GetTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].Title)
	assert.Equal(t, "first", tasks[1].Title)

	todo, err := s.GetTasks(ctx, TaskFilter{Status: types.TaskStatusTodo})
	require.NoError(t, err)
	require.Len(t, todo, 1)
	assert.Equal(t, first.ID, todo[0].ID)
}

func TestEventsByStart(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	late := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	early := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := s.CreateEvent(ctx, types.NewEvent{Title: "late", Start: late, End: late.Add(time.Hour)})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, types.NewEvent{Title: "early", Start: early, End: early.Add(time.Hour)})
	require.NoError(t, err)

	events, err := s.GetEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "early", events[0].Title)
	assert.Equal(t, "late", events[1].Title)
}

func TestLatestMetrics(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	_, err := s.CreateMetrics(ctx, types.NewMetrics{Revenue: 100})
	require.NoError(t, err)
	second, err := s.CreateMetrics(ctx, types.NewMetrics{Revenue: 200, Users: 5})
	require.NoError(t, err)

	latest, err := s.GetLatestMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest)
}

func TestChartData(t *testing.T) {
	s := newEmptyStore(t)

	data, err := s.GetChartData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{12000, 19000, 15000, 25000, 22000, 30000, 28000}, data.Revenue)
	assert.Equal(t, []int{400, 600, 800, 1200, 900, 1100, 1400}, data.Users)
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul"}, data.Labels)
}

func TestUserLookup(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	created, err := s.CreateUser(ctx, types.NewUser{Username: "admin", Password: "admin"})
	require.NoError(t, err)

	byID, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byName, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, created, byName)

	_, err = s.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	order, err := s.CreateOrder(ctx, types.NewOrder{CustomerName: "x", CustomerAvatar: ptr("a.png")})
	require.NoError(t, err)
	*order.CustomerAvatar = "changed.png"

	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomerAvatar)
	assert.Equal(t, "a.png", *got.CustomerAvatar)
}

func TestConcurrentCreatesYieldDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := newEmptyStore(t)

	const workers = 16
	const perWorker = 25

	var wg sync.WaitGroup
	ids := make(chan int, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				task, err := s.CreateTask(ctx, sampleTask("parallel"))
				if err != nil {
					t.Error(err)
					return
				}
				ids <- task.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, workers*perWorker+1, s.taskIDs.peek())
}
