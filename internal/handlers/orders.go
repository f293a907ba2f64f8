package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adminboard/apiserver/internal/services"
	"github.com/adminboard/apiserver/internal/store"
	"github.com/adminboard/apiserver/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler provides HTTP handlers for orders.
type OrderHandler struct {
	orderService *services.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

// OrderRouter registers order routes on the given router.
func OrderRouter(r chi.Router, orderService *services.OrderService, logger *zap.Logger) {
	handler := NewOrderHandler(orderService, logger)

	r.Get("/", handler.ListOrders)
	r.Post("/", handler.CreateOrder)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.GetOrder)
		r.Put("/", handler.UpdateOrder)
		r.Delete("/", handler.DeleteOrder)
	})
}

// OrderListResponse is one page of orders plus the matching total.
type OrderListResponse struct {
	Orders []types.Order `json:"orders"`
	Total  int           `json:"total"`
}

// CreateOrderRequest is the body of POST /api/orders.
type CreateOrderRequest struct {
	CustomerID     *int              `json:"customerId"`
	CustomerName   string            `json:"customerName"`
	CustomerEmail  string            `json:"customerEmail"`
	CustomerAvatar *string           `json:"customerAvatar"`
	Amount         *float64          `json:"amount"`
	Status         types.OrderStatus `json:"status"`
}

func (req CreateOrderRequest) toNewOrder() (types.NewOrder, error) {
	switch {
	case req.CustomerID == nil:
		return types.NewOrder{}, errors.New("customerId is required")
	case strings.TrimSpace(req.CustomerName) == "":
		return types.NewOrder{}, errors.New("customerName is required")
	case strings.TrimSpace(req.CustomerEmail) == "":
		return types.NewOrder{}, errors.New("customerEmail is required")
	case req.Amount == nil:
		return types.NewOrder{}, errors.New("amount is required")
	case req.Status == "":
		return types.NewOrder{}, errors.New("status is required")
	case !req.Status.Valid():
		return types.NewOrder{}, errors.New("invalid status")
	}
	return types.NewOrder{
		CustomerID:     *req.CustomerID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerAvatar: req.CustomerAvatar,
		Amount:         *req.Amount,
		Status:         req.Status,
	}, nil
}

func validateOrderPatch(patch types.OrderPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := parseOptionalInt(query.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	orders, total, err := h.orderService.List(r.Context(), store.OrderQuery{
		Limit:  limit,
		Offset: offset,
		Search: strings.TrimSpace(query.Get("q")),
	})
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to list orders", err)
		return
	}

	writeJSON(w, http.StatusOK, OrderListResponse{Orders: orders, Total: total})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "order")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, r, h.logger, "failed to fetch order", err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, err := req.toNewOrder()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.orderService.Create(r.Context(), input)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "order")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch types.OrderPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateOrderPatch(patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.orderService.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, r, h.logger, "failed to update order", err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "order")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := h.orderService.Delete(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to delete order", err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
