package services

import (
	"context"

	"github.com/adminboard/apiserver/internal/mq"
	"github.com/adminboard/apiserver/internal/telemetry"
	"github.com/adminboard/apiserver/types"
)

// MetricsRepository defines persistence operations for metrics snapshots.
type MetricsRepository interface {
	GetLatestMetrics(ctx context.Context) (types.Metrics, error)
	CreateMetrics(ctx context.Context, metrics types.NewMetrics) (types.Metrics, error)
	GetChartData(ctx context.Context) (types.ChartData, error)
}

// MetricsService serves the dashboard summary cards and charts.
type MetricsService struct {
	base
	repo MetricsRepository
}

func NewMetricsService(repo MetricsRepository, opts ...Option) *MetricsService {
	return &MetricsService{base: newBase(mq.KindMetrics, opts), repo: repo}
}

func (s *MetricsService) Latest(ctx context.Context) (m types.Metrics, err error) {
	ctx, span := s.span(ctx, "latest")
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetLatestMetrics(ctx)
}

func (s *MetricsService) Create(ctx context.Context, input types.NewMetrics) (m types.Metrics, err error) {
	ctx, span := s.span(ctx, "create")
	defer func() { telemetry.EndSpan(span, err) }()

	m, err = s.repo.CreateMetrics(ctx, input)
	if err != nil {
		return types.Metrics{}, err
	}
	s.notify(ctx, mq.ActionCreated, m.ID)
	return m, nil
}

func (s *MetricsService) ChartData(ctx context.Context) (data types.ChartData, err error) {
	ctx, span := s.span(ctx, "chart")
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetChartData(ctx)
}
