package store

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adminboard/apiserver/types"
)

// Compile-time check that MemStorage satisfies Storage.
var _ Storage = (*MemStorage)(nil)

// MemStorage keeps every entity kind in a process-local map keyed by id.
// A single RWMutex guards the collections and their id sequences so that
// create, update and delete are atomic under concurrent requests.
type MemStorage struct {
	mu  sync.RWMutex
	now func() time.Time

	users   map[int]types.User
	orders  map[int]types.Order
	tasks   map[int]types.Task
	events  map[int]types.Event
	metrics map[int]types.Metrics

	userIDs    idSequence
	orderIDs   idSequence
	taskIDs    idSequence
	eventIDs   idSequence
	metricsIDs idSequence
}

// MemOption configures a MemStorage at construction.
type MemOption func(*memOptions)

type memOptions struct {
	now  func() time.Time
	seed *Seed
}

// WithClock sets the time source used to stamp createdAt and date.
func WithClock(now func() time.Time) MemOption {
	return func(o *memOptions) {
		o.now = now
	}
}

// WithSeed replaces the default demonstration data.
func WithSeed(seed Seed) MemOption {
	return func(o *memOptions) {
		o.seed = &seed
	}
}

// WithoutSeed starts the store empty.
func WithoutSeed() MemOption {
	return func(o *memOptions) {
		o.seed = &Seed{}
	}
}

// NewMemStorage returns an in-memory store. Unless WithoutSeed or WithSeed
// is given, the default seed is loaded before the store is returned.
func NewMemStorage(opts ...MemOption) (*MemStorage, error) {
	options := memOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}

	s := &MemStorage{
		now:        options.now,
		users:      make(map[int]types.User),
		orders:     make(map[int]types.Order),
		tasks:      make(map[int]types.Task),
		events:     make(map[int]types.Event),
		metrics:    make(map[int]types.Metrics),
		userIDs:    newIDSequence(firstUserID),
		orderIDs:   newIDSequence(firstOrderID),
		taskIDs:    newIDSequence(firstTaskID),
		eventIDs:   newIDSequence(firstEventID),
		metricsIDs: newIDSequence(firstMetricsID),
	}

	seed := options.seed
	if seed == nil {
		defaultSeed, err := DefaultSeed()
		if err != nil {
			return nil, err
		}
		seed = &defaultSeed
	}
	if err := seed.Apply(context.Background(), s); err != nil {
		return nil, err
	}
	return s, nil
}

// Users

func (s *MemStorage) GetUser(ctx context.Context, id int) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemStorage) GetUserByUsername(ctx context.Context, username string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Scan in id order so duplicate usernames resolve to the oldest account.
	ids := sortedKeys(s.users)
	for _, id := range ids {
		if user := s.users[id]; user.Username == username {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

func (s *MemStorage) CreateUser(ctx context.Context, input types.NewUser) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := types.User{
		ID:       s.userIDs.take(),
		Username: input.Username,
		Password: input.Password,
	}
	s.users[user.ID] = user
	return user, nil
}

// Orders

func (s *MemStorage) GetOrders(ctx context.Context, query OrderQuery) ([]types.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]types.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if matchesOrder(order, query.Search) {
			orders = append(orders, order.Clone())
		}
	}
	slices.SortFunc(orders, func(a, b types.Order) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return paginate(orders, query.Offset, query.Limit), nil
}

func (s *MemStorage) GetOrder(ctx context.Context, id int) (types.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return types.Order{}, ErrNotFound
	}
	return order.Clone(), nil
}

func (s *MemStorage) CreateOrder(ctx context.Context, input types.NewOrder) (types.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := input.Build(s.orderIDs.take(), s.now())
	s.orders[order.ID] = order
	return order.Clone(), nil
}

func (s *MemStorage) UpdateOrder(ctx context.Context, id int, patch types.OrderPatch) (types.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return types.Order{}, ErrNotFound
	}
	order = patch.Apply(order)
	s.orders[id] = order
	return order.Clone(), nil
}

func (s *MemStorage) DeleteOrder(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return false, nil
	}
	delete(s.orders, id)
	return true, nil
}

func (s *MemStorage) GetOrdersCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders), nil
}

func (s *MemStorage) CountOrders(ctx context.Context, search string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if search == "" {
		return len(s.orders), nil
	}
	count := 0
	for _, order := range s.orders {
		if matchesOrder(order, search) {
			count++
		}
	}
	return count, nil
}

// Tasks

func (s *MemStorage) GetTasks(ctx context.Context, filter TaskFilter) ([]types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]types.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		tasks = append(tasks, task.Clone())
	}
	slices.SortFunc(tasks, func(a, b types.Task) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return tasks, nil
}

func (s *MemStorage) GetTask(ctx context.Context, id int) (types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return types.Task{}, ErrNotFound
	}
	return task.Clone(), nil
}

func (s *MemStorage) CreateTask(ctx context.Context, input types.NewTask) (types.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := input.Build(s.taskIDs.take(), s.now())
	s.tasks[task.ID] = task
	return task.Clone(), nil
}

func (s *MemStorage) UpdateTask(ctx context.Context, id int, patch types.TaskPatch) (types.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return types.Task{}, ErrNotFound
	}
	task = patch.Apply(task)
	s.tasks[id] = task
	return task.Clone(), nil
}

func (s *MemStorage) DeleteTask(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

// Events

func (s *MemStorage) GetEvents(ctx context.Context) ([]types.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]types.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, event.Clone())
	}
	slices.SortFunc(events, func(a, b types.Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return events, nil
}

func (s *MemStorage) GetEvent(ctx context.Context, id int) (types.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[id]
	if !ok {
		return types.Event{}, ErrNotFound
	}
	return event.Clone(), nil
}

func (s *MemStorage) CreateEvent(ctx context.Context, input types.NewEvent) (types.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event := input.Build(s.eventIDs.take(), s.now())
	s.events[event.ID] = event
	return event.Clone(), nil
}

func (s *MemStorage) UpdateEvent(ctx context.Context, id int, patch types.EventPatch) (types.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return types.Event{}, ErrNotFound
	}
	event = patch.Apply(event)
	s.events[id] = event
	return event.Clone(), nil
}

func (s *MemStorage) DeleteEvent(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return false, nil
	}
	delete(s.events, id)
	return true, nil
}

// Metrics

func (s *MemStorage) GetLatestMetrics(ctx context.Context) (types.Metrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest types.Metrics
		found  bool
	)
	for _, m := range s.metrics {
		// Later ids win ties so the most recent snapshot is returned when
		// two share a timestamp.
		if !found || m.Date.After(latest.Date) || (m.Date.Equal(latest.Date) && m.ID > latest.ID) {
			latest = m
			found = true
		}
	}
	if !found {
		return types.Metrics{}, ErrNotFound
	}
	return latest, nil
}

func (s *MemStorage) CreateMetrics(ctx context.Context, input types.NewMetrics) (types.Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := input.Build(s.metricsIDs.take(), s.now())
	s.metrics[m.ID] = m
	return m, nil
}

func (s *MemStorage) GetChartData(ctx context.Context) (types.ChartData, error) {
	return chartData(), nil
}

// newestFirst orders by creation time descending, then id descending.
func newestFirst(aTime, bTime time.Time, aID, bID int) int {
	if c := bTime.Compare(aTime); c != 0 {
		return c
	}
	return cmp.Compare(bID, aID)
}

func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = DefaultOrderLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + min(limit, len(items)-offset)
	return items[offset:end]
}

func matchesOrder(order types.Order, search string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(order.CustomerName), needle) ||
		strings.Contains(strings.ToLower(order.CustomerEmail), needle) ||
		strings.Contains(strconv.Itoa(order.ID), search)
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
