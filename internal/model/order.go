package model

import (
	"time"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Color       string  `json:"color"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is a checked-out purchase.
type Order struct {
	ID                string      `json:"order_id"`
	CustomerID        string      `json:"customer_id"`
	CustomerName      string      `json:"customer_name"`
	PhonePrimary      string      `json:"phone_primary"`
	PhoneAlternative  string      `json:"phone_alternative"`
	District          string      `json:"district"`
	Municipality      string      `json:"municipality"`
	WardNumber        string      `json:"ward_number"`
	ToleArea          string      `json:"tole_area"`
	Items             []OrderItem `json:"items"`
	Subtotal          float64     `json:"subtotal"`
	DeliveryCharge    float64     `json:"delivery_charge"`
	TotalAmount       float64     `json:"total_amount"`
	PaymentMethod     string      `json:"payment_method"`
	PaymentScreenshot string      `json:"payment_screenshot"`
	Status            OrderStatus `json:"status"`
	MediaPending      bool        `json:"has_media_pending"`
	CreatedAt         time.Time   `json:"created_at"`
}

// CreateOrderRequest is the admin manual order entry payload.
type CreateOrderRequest struct {
	CustomerID        string      `json:"customer_id"`
	CustomerName      string      `json:"customer_name"`
	PhonePrimary      string      `json:"phone_primary"`
	PhoneAlternative  string      `json:"phone_alternative"`
	District          string      `json:"district"`
	Municipality      string      `json:"municipality"`
	WardNumber        string      `json:"ward_number"`
	ToleArea          string      `json:"tole_area"`
	Items             []OrderItem `json:"items"`
	PaymentMethod     string      `json:"payment_method"`
	PaymentScreenshot string      `json:"payment_screenshot"`
}

// UpdateStatusRequest is the body of PUT /admin/orders/{id}/status.
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// ComputeSubtotal returns the sum of price times quantity over items.
func ComputeSubtotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
