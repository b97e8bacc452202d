package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
	"github.com/urban-fashion/sales-agent/pkg/logger"
	"github.com/urban-fashion/sales-agent/pkg/metrics"
)

// OrderService manages orders.
type OrderService struct {
	orders         *repository.OrderRepository
	events         EventPublisher
	deliveryCharge float64
	logger         *logger.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders *repository.OrderRepository, events EventPublisher, deliveryCharge float64, log *logger.Logger) *OrderService {
	return &OrderService{
		orders:         orders,
		events:         events,
		deliveryCharge: deliveryCharge,
		logger:         log,
	}
}

// List returns all orders, newest first.
func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Get returns one order.
func (s *OrderService) Get(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return o, nil
}

// Create records a manually entered order and computes its totals.
func (s *OrderService) Create(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error) {
	subtotal := model.ComputeSubtotal(req.Items)
	o := &model.Order{
		ID:                newID(),
		CustomerID:        req.CustomerID,
		CustomerName:      req.CustomerName,
		PhonePrimary:      req.PhonePrimary,
		PhoneAlternative:  req.PhoneAlternative,
		District:          req.District,
		Municipality:      req.Municipality,
		WardNumber:        req.WardNumber,
		ToleArea:          req.ToleArea,
		Items:             req.Items,
		Subtotal:          subtotal,
		DeliveryCharge:    s.deliveryCharge,
		TotalAmount:       subtotal + s.deliveryCharge,
		PaymentMethod:     req.PaymentMethod,
		PaymentScreenshot: req.PaymentScreenshot,
		Status:            model.OrderPending,
		CreatedAt:         time.Now().UTC(),
	}
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	publishEvent(ctx, s.events, s.logger, model.EventOrderCreated, o.CustomerID, o.ID, map[string]any{
		"total_amount": o.TotalAmount,
	})
	s.logger.Info("order created", zap.String("order_id", o.ID), zap.Float64("total", o.TotalAmount))
	return o, nil
}

// UpdateStatus moves an existing order to status.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}

	metrics.OrderStatusChangesTotal.WithLabelValues(string(status)).Inc()
	publishEvent(ctx, s.events, s.logger, model.EventOrderStatusChanged, o.CustomerID, o.ID, map[string]any{
		"status": string(status),
	})
	return o, nil
}
