package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/urban-fashion/sales-agent/internal/middleware"
	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/service"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

// OrderHandler handles order and analytics endpoints.
type OrderHandler struct {
	orders    *service.OrderService
	analytics *service.AnalyticsService
	logger    *logger.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders *service.OrderService, analytics *service.AnalyticsService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		analytics: analytics,
		logger:    log,
	}
}

// RegisterRoutes mounts the order endpoints on r.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Post("/orders", h.Create)
	r.Get("/orders/{id}", h.Get)
	r.Put("/orders/{id}/status", h.UpdateStatus)
	r.Get("/analytics", h.Analytics)
}

// List handles GET /api/admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Create handles POST /api/admin/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateOrderRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.orders.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to create order")
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// Get handles GET /api/admin/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Order not found", "failed to get order")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// UpdateStatus handles PUT /api/admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeServiceError(w, r, h.logger, err, "Order not found", "failed to update order")
		return
	}
	writeSuccess(w)
}

// Analytics handles GET /api/admin/analytics
func (h *OrderHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summary(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to compute analytics")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
