package store

import (
	"context"

	"github.com/adminboard/apiserver/types"
)

// DefaultOrderLimit is the page size used when a caller does not supply one.
const DefaultOrderLimit = 10

// OrderQuery selects a page of orders sorted by creation time, newest first.
type OrderQuery struct {
	Limit  int
	Offset int
	// Search, when set, keeps orders whose customer name or email contains it
	// case-insensitively, or whose id contains it as a decimal substring.
	Search string
}

// TaskFilter narrows the task list. The zero value selects every task.
type TaskFilter struct {
	Status types.TaskStatus
}

// Storage is the repository contract the HTTP layer depends on. Lookups and
// updates on unknown ids return ErrNotFound; deletes report whether a record
// was removed.
type Storage interface {
	GetUser(ctx context.Context, id int) (types.User, error)
	GetUserByUsername(ctx context.Context, username string) (types.User, error)
	CreateUser(ctx context.Context, user types.NewUser) (types.User, error)

	GetOrders(ctx context.Context, query OrderQuery) ([]types.Order, error)
	GetOrder(ctx context.Context, id int) (types.Order, error)
	CreateOrder(ctx context.Context, order types.NewOrder) (types.Order, error)
	UpdateOrder(ctx context.Context, id int, patch types.OrderPatch) (types.Order, error)
	DeleteOrder(ctx context.Context, id int) (bool, error)
	GetOrdersCount(ctx context.Context) (int, error)
	CountOrders(ctx context.Context, search string) (int, error)

	GetTasks(ctx context.Context, filter TaskFilter) ([]types.Task, error)
	GetTask(ctx context.Context, id int) (types.Task, error)
	CreateTask(ctx context.Context, task types.NewTask) (types.Task, error)
	UpdateTask(ctx context.Context, id int, patch types.TaskPatch) (types.Task, error)
	DeleteTask(ctx context.Context, id int) (bool, error)

	GetEvents(ctx context.Context) ([]types.Event, error)
	GetEvent(ctx context.Context, id int) (types.Event, error)
	CreateEvent(ctx context.Context, event types.NewEvent) (types.Event, error)
	UpdateEvent(ctx context.Context, id int, patch types.EventPatch) (types.Event, error)
	DeleteEvent(ctx context.Context, id int) (bool, error)

	GetLatestMetrics(ctx context.Context) (types.Metrics, error)
	CreateMetrics(ctx context.Context, metrics types.NewMetrics) (types.Metrics, error)
	GetChartData(ctx context.Context) (types.ChartData, error)
}

// chartData returns the fixed monthly series served by GetChartData. It is
// not derived from the metrics log.
func chartData() types.ChartData {
	return types.ChartData{
		Revenue: []float64{12000, 19000, 15000, 25000, 22000, 30000, 28000},
		Users:   []int{400, 600, 800, 1200, 900, 1100, 1400},
		Labels:  []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul"},
	}
}
