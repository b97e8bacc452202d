// Package service provides business logic for the sales agent backend.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
	"github.com/urban-fashion/sales-agent/pkg/logger"
	"github.com/urban-fashion/sales-agent/pkg/metrics"
)

var (
	// ErrNotFound is returned when the addressed entity does not exist.
	ErrNotFound = repository.ErrNotFound

	// ErrInvalidPassword is returned by Login on a wrong admin password.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidStatus is returned for an order status outside the known set.
	ErrInvalidStatus = errors.New("invalid order status")
)

// Messenger delivers outbound messages to a customer.
type Messenger interface {
	SendText(ctx context.Context, recipientID, text string) error
	SendImage(ctx context.Context, recipientID, imageURL string) error
}

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event *model.DomainEvent) error
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// publishEvent sends a domain event. Failures are logged and counted only.
func publishEvent(ctx context.Context, pub EventPublisher, log *logger.Logger, eventType model.EventType, customerID, entityID string, metadata map[string]any) {
	if pub == nil {
		return
	}
	event := &model.DomainEvent{
		ID:         newID(),
		Type:       eventType,
		CustomerID: customerID,
		EntityID:   entityID,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}
	if err := pub.Publish(ctx, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(string(eventType)).Inc()
		log.Warn("failed to publish event",
			zap.String("event_type", string(eventType)),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}
