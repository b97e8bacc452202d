package model

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

const (
	EventConversationUpdated EventType = "conversation.updated"
	EventMediaReceived       EventType = "media.received"
	EventMediaReviewed       EventType = "media.reviewed"
	EventOrderCreated        EventType = "order.created"
	EventOrderStatusChanged  EventType = "order.status_changed"
)

// DomainEvent is published to the event stream after a state change.
type DomainEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	CustomerID string         `json:"customer_id"`
	EntityID   string         `json:"entity_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AnalyticsWindow aggregates orders over a time window.
type AnalyticsWindow struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Add counts o into the window.
func (w *AnalyticsWindow) Add(o Order) {
	w.Orders++
	w.Revenue += o.TotalAmount
}

// AnalyticsSummary is the admin dashboard payload.
type AnalyticsSummary struct {
	Today        AnalyticsWindow `json:"today"`
	Week         AnalyticsWindow `json:"week"`
	Month        AnalyticsWindow `json:"month"`
	RecentOrders []Order         `json:"recent_orders"`
}
