package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/urban-fashion/sales-agent/internal/model"
)

const (
	// StreamName is the name of the commerce events stream.
	StreamName = "COMMERCE"

	// SubjectPrefix is the prefix for all commerce subjects.
	SubjectPrefix = "commerce"
)

// StreamManager handles JetStream stream operations.
type StreamManager struct {
	client *Client
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{client: client}
}

// EnsureStream ensures the commerce stream exists with proper configuration.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	js := m.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		MaxBytes:    1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Conversation, media and order events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// EventSubject returns the subject for an event, e.g.
// commerce.order.status_changed.<customer>.
func EventSubject(eventType model.EventType, customerID string) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, eventType, subjectToken(customerID))
}

// subjectToken makes an id safe to use as a single subject token.
func subjectToken(id string) string {
	if id == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, id)
}

// PublishEvent publishes an event to JetStream and returns its stream sequence.
func (m *StreamManager) PublishEvent(ctx context.Context, event *model.DomainEvent) (uint64, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, EventSubject(event.Type, event.CustomerID), data,
		jetstream.WithMsgID(event.ID))
	if err != nil {
		return 0, fmt.Errorf("failed to publish event: %w", err)
	}

	return ack.Sequence, nil
}

// Publish implements the services' event publisher.
func (m *StreamManager) Publish(ctx context.Context, event *model.DomainEvent) error {
	_, err := m.PublishEvent(ctx, event)
	return err
}

// NopPublisher discards events. Used when NATS is not configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, *model.DomainEvent) error { return nil }
