package services

import (
	"context"

	"github.com/adminboard/apiserver/internal/mq"
	"github.com/adminboard/apiserver/internal/store"
	"github.com/adminboard/apiserver/internal/telemetry"
	"github.com/adminboard/apiserver/types"
	"go.opentelemetry.io/otel/attribute"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	GetOrders(ctx context.Context, query store.OrderQuery) ([]types.Order, error)
	GetOrder(ctx context.Context, id int) (types.Order, error)
	CreateOrder(ctx context.Context, order types.NewOrder) (types.Order, error)
	UpdateOrder(ctx context.Context, id int, patch types.OrderPatch) (types.Order, error)
	DeleteOrder(ctx context.Context, id int) (bool, error)
	GetOrdersCount(ctx context.Context) (int, error)
	CountOrders(ctx context.Context, search string) (int, error)
}

// OrderService encapsulates order use-cases.
type OrderService struct {
	base
	repo OrderRepository
}

func NewOrderService(repo OrderRepository, opts ...Option) *OrderService {
	return &OrderService{base: newBase(mq.KindOrder, opts), repo: repo}
}

// List returns one page of orders, newest first, and the number of orders
// matching the search across all pages.
func (s *OrderService) List(ctx context.Context, query store.OrderQuery) (orders []types.Order, total int, err error) {
	query.Limit, query.Offset = clampPage(query.Limit, query.Offset)
	ctx, span := s.span(ctx, "list",
		attribute.Int("page.limit", query.Limit),
		attribute.Int("page.offset", query.Offset),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	orders, err = s.repo.GetOrders(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	total, err = s.repo.CountOrders(ctx, query.Search)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderService) Get(ctx context.Context, id int) (order types.Order, err error) {
	ctx, span := s.span(ctx, "get", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetOrder(ctx, id)
}

func (s *OrderService) Create(ctx context.Context, input types.NewOrder) (order types.Order, err error) {
	ctx, span := s.span(ctx, "create")
	defer func() { telemetry.EndSpan(span, err) }()

	order, err = s.repo.CreateOrder(ctx, input)
	if err != nil {
		return types.Order{}, err
	}
	s.notify(ctx, mq.ActionCreated, order.ID)
	return order, nil
}

func (s *OrderService) Update(ctx context.Context, id int, patch types.OrderPatch) (order types.Order, err error) {
	ctx, span := s.span(ctx, "update", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()

	order, err = s.repo.UpdateOrder(ctx, id, patch)
	if err != nil {
		return types.Order{}, err
	}
	s.notify(ctx, mq.ActionUpdated, id)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id int) (removed bool, err error) {
	ctx, span := s.span(ctx, "delete", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()

	removed, err = s.repo.DeleteOrder(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	s.notify(ctx, mq.ActionDeleted, id)
	return true, nil
}

// Count returns the number of stored orders.
func (s *OrderService) Count(ctx context.Context) (total int, err error) {
	ctx, span := s.span(ctx, "count")
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetOrdersCount(ctx)
}
