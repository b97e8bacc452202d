package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

// MediaService handles the human review queue for customer media.
type MediaService struct {
	media         *repository.MediaRepository
	conversations *repository.ConversationRepository
	messenger     Messenger
	events        EventPublisher
	logger        *logger.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(
	media *repository.MediaRepository,
	conversations *repository.ConversationRepository,
	messenger Messenger,
	events EventPublisher,
	log *logger.Logger,
) *MediaService {
	return &MediaService{
		media:         media,
		conversations: conversations,
		messenger:     messenger,
		events:        events,
		logger:        log,
	}
}

// List returns notifications newest first. An empty status lists all.
func (s *MediaService) List(ctx context.Context, status model.MediaStatus) ([]model.MediaNotification, error) {
	out, err := s.media.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list media notifications: %w", err)
	}
	return out, nil
}

// Respond marks a notification reviewed and forwards a non-empty response
// to the customer. The conversation reopens once no notification of the
// customer is pending.
func (s *MediaService) Respond(ctx context.Context, id, response string) (*model.MediaNotification, error) {
	n, err := s.media.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get media notification %s: %w", id, err)
	}

	if err := s.media.MarkReviewed(ctx, id, response); err != nil {
		return nil, fmt.Errorf("failed to mark media %s reviewed: %w", id, err)
	}
	n.Status = model.MediaStatusReviewed
	n.AdminResponse = response

	log := s.logger.With(zap.String("notification_id", id), zap.String("customer_id", n.CustomerID))

	// The gate stays closed while any other attachment awaits review.
	pending, err := s.media.CountPending(ctx, n.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending media for %s: %w", n.CustomerID, err)
	}
	if pending == 0 {
		if err := s.conversations.SetMediaPending(ctx, n.CustomerID, false); err != nil {
			return nil, fmt.Errorf("failed to clear media gate for %s: %w", n.CustomerID, err)
		}
	} else {
		log.Info("media gate kept closed", zap.Int64("pending", pending))
	}

	if response != "" {
		if err := s.messenger.SendText(ctx, n.CustomerID, response); err != nil {
			log.Warn("failed to forward media response", zap.Error(err))
		}
	}

	publishEvent(ctx, s.events, log, model.EventMediaReviewed, n.CustomerID, id, nil)
	log.Info("media reviewed")
	return n, nil
}
