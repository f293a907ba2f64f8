package handlers

import (
	"errors"
	"net/http"

	"github.com/adminboard/apiserver/internal/services"
	"github.com/adminboard/apiserver/internal/store"
	"github.com/adminboard/apiserver/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MetricsHandler serves the dashboard summary and chart endpoints.
type MetricsHandler struct {
	metricsService *services.MetricsService
	logger         *zap.Logger
}

func NewMetricsHandler(metricsService *services.MetricsService, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, logger: logger}
}

// MetricsRouter registers /metrics and /chart-data on the given router.
func MetricsRouter(r chi.Router, metricsService *services.MetricsService, logger *zap.Logger) {
	handler := NewMetricsHandler(metricsService, logger)

	r.Get("/metrics", handler.GetLatestMetrics)
	r.Post("/metrics", handler.CreateMetrics)
	r.Get("/chart-data", handler.GetChartData)
}

// CreateMetricsRequest is the body of POST /api/metrics.
type CreateMetricsRequest struct {
	Revenue        *float64 `json:"revenue"`
	Users          *int     `json:"users"`
	Orders         *int     `json:"orders"`
	ConversionRate *float64 `json:"conversionRate"`
}

func (req CreateMetricsRequest) toNewMetrics() (types.NewMetrics, error) {
	switch {
	case req.Revenue == nil:
		return types.NewMetrics{}, errors.New("revenue is required")
	case req.Users == nil:
		return types.NewMetrics{}, errors.New("users is required")
	case req.Orders == nil:
		return types.NewMetrics{}, errors.New("orders is required")
	case req.ConversionRate == nil:
		return types.NewMetrics{}, errors.New("conversionRate is required")
	}
	return types.NewMetrics{
		Revenue:        *req.Revenue,
		Users:          *req.Users,
		Orders:         *req.Orders,
		ConversionRate: *req.ConversionRate,
	}, nil
}

func (h *MetricsHandler) GetLatestMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.metricsService.Latest(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "metrics not found")
			return
		}
		writeInternalError(w, r, h.logger, "failed to fetch metrics", err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (h *MetricsHandler) CreateMetrics(w http.ResponseWriter, r *http.Request) {
	var req CreateMetricsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, err := req.toNewMetrics()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.metricsService.Create(r.Context(), input)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to create metrics", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *MetricsHandler) GetChartData(w http.ResponseWriter, r *http.Request) {
	data, err := h.metricsService.ChartData(r.Context())
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to fetch chart data", err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}
