package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

// ConversationService is the admin view over customer conversations.
type ConversationService struct {
	conversations *repository.ConversationRepository
	logger        *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(conversations *repository.ConversationRepository, log *logger.Logger) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		logger:        log,
	}
}

// List returns conversation summaries, most recently updated first.
func (s *ConversationService) List(ctx context.Context, limit int) ([]model.ConversationSummary, error) {
	convs, err := s.conversations.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	out := make([]model.ConversationSummary, len(convs))
	for i := range convs {
		out[i] = convs[i].Summary()
	}
	return out, nil
}

// Get returns the full conversation of a customer.
func (s *ConversationService) Get(ctx context.Context, customerID string) (*model.Conversation, error) {
	conv, err := s.conversations.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %s: %w", customerID, err)
	}
	return conv, nil
}

// Delete removes a customer's conversation. The next message starts over.
func (s *ConversationService) Delete(ctx context.Context, customerID string) error {
	if err := s.conversations.Delete(ctx, customerID); err != nil {
		return fmt.Errorf("failed to delete conversation %s: %w", customerID, err)
	}
	s.logger.Info("conversation deleted", zap.String("customer_id", customerID))
	return nil
}
