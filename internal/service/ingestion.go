package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
	"github.com/urban-fashion/sales-agent/internal/sales"
	"github.com/urban-fashion/sales-agent/pkg/logger"
	"github.com/urban-fashion/sales-agent/pkg/metrics"
	"github.com/urban-fashion/sales-agent/pkg/tracing"
)

// MaxProductImages caps how many product photos follow one reply.
const MaxProductImages = 3

// Outcome describes what the pipeline did with one messaging event.
type Outcome string

const (
	OutcomeIgnored     Outcome = "ignored"
	OutcomeMediaQueued Outcome = "media_queued"
	OutcomeGated       Outcome = "gated"
	OutcomeReplied     Outcome = "replied"
	OutcomeDegraded    Outcome = "replied_fallback"
	OutcomeFailed      Outcome = "failed"
)

// ReplyGenerator produces the agent reply for one customer turn.
type ReplyGenerator interface {
	Generate(ctx context.Context, customerID, text string, conv *model.Conversation, products []model.Product) sales.Reply
}

// IngestionService turns inbound messaging events into conversation
// updates and outbound replies.
type IngestionService struct {
	conversations *repository.ConversationRepository
	products      *repository.ProductRepository
	media         *repository.MediaRepository
	generator     ReplyGenerator
	messenger     Messenger
	events        EventPublisher
	locks         *KeyedMutex
	catalogLimit  int
	logger        *logger.Logger
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	conversations *repository.ConversationRepository,
	products *repository.ProductRepository,
	media *repository.MediaRepository,
	generator ReplyGenerator,
	messenger Messenger,
	events EventPublisher,
	catalogLimit int,
	log *logger.Logger,
) *IngestionService {
	return &IngestionService{
		conversations: conversations,
		products:      products,
		media:         media,
		generator:     generator,
		messenger:     messenger,
		events:        events,
		locks:         NewKeyedMutex(),
		catalogLimit:  catalogLimit,
		logger:        log,
	}
}

// HandleEvent processes one messaging event. Events of the same customer
// are handled one at a time; store errors are returned, outbound send
// failures are only logged.
func (s *IngestionService) HandleEvent(ctx context.Context, event model.MessagingEvent) (Outcome, error) {
	customerID := event.Sender.ID
	if customerID == "" || event.Message == nil || event.Message.IsEcho {
		metrics.WebhookEventsTotal.WithLabelValues(string(OutcomeIgnored)).Inc()
		return OutcomeIgnored, nil
	}

	ctx, span := tracing.Tracer().Start(ctx, "ingestion.handle_event")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	unlock, err := s.locks.Lock(ctx, customerID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to lock customer %s: %w", customerID, err)
	}
	defer unlock()

	outcome, err := s.handleLocked(ctx, customerID, event.Message)
	if err != nil {
		outcome = OutcomeFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("ingestion.outcome", string(outcome)))
	metrics.WebhookEventsTotal.WithLabelValues(string(outcome)).Inc()
	return outcome, err
}

func (s *IngestionService) handleLocked(ctx context.Context, customerID string, msg *model.InboundMessage) (Outcome, error) {
	log := s.logger.With(zap.String("customer_id", customerID), zap.String("mid", msg.MID))

	if attachments := msg.MediaAttachments(); len(attachments) > 0 {
		if err := s.queueMedia(ctx, customerID, attachments, log); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeMediaQueued, nil
	}

	if msg.Text == "" {
		return OutcomeIgnored, nil
	}

	conv, err := s.conversations.FindByCustomer(ctx, customerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		conv, err = s.createConversation(ctx, customerID)
		if err != nil {
			return OutcomeFailed, err
		}
	case err != nil:
		return OutcomeFailed, fmt.Errorf("failed to load conversation: %w", err)
	case conv.MediaPending:
		log.Info("conversation gated on pending media review")
		return OutcomeGated, nil
	}

	conv.Append(model.NewMessage(model.SenderCustomer, msg.Text, nil))

	products, err := s.products.ListActive(ctx, s.catalogLimit)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to load catalog: %w", err)
	}

	reply := s.generator.Generate(ctx, customerID, msg.Text, conv, products)
	mentions := sales.DetectMentions(reply.Text, products)

	s.dispatch(ctx, customerID, reply.Text, mentions, products, log)

	conv.Append(model.NewMessage(model.SenderAgent, reply.Text, mentions))
	conv.Stage = sales.ClassifyStage(conv.Messages)
	conv.LastUpdated = time.Now().UTC()

	if err := s.conversations.Save(ctx, conv); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to save conversation: %w", err)
	}
	metrics.ConversationStagesTotal.WithLabelValues(string(conv.Stage)).Inc()

	publishEvent(ctx, s.events, log, model.EventConversationUpdated, customerID, conv.ID, map[string]any{
		"stage":    string(conv.Stage),
		"mentions": mentions,
		"degraded": reply.Degraded,
	})

	log.Info("customer message handled",
		zap.String("stage", string(conv.Stage)),
		zap.Int("mentions", len(mentions)),
		zap.Bool("degraded", reply.Degraded),
	)

	if reply.Degraded {
		return OutcomeDegraded, nil
	}
	return OutcomeReplied, nil
}

func (s *IngestionService) createConversation(ctx context.Context, customerID string) (*model.Conversation, error) {
	conv := &model.Conversation{
		ID:          newID(),
		CustomerID:  customerID,
		Messages:    []model.Message{},
		Stage:       model.StageGreeting,
		Context:     map[string]any{},
		LastUpdated: time.Now().UTC(),
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	metrics.ConversationsTotal.Inc()
	return conv, nil
}

// queueMedia records each attachment for review and gates the conversation.
func (s *IngestionService) queueMedia(ctx context.Context, customerID string, attachments []model.Attachment, log *logger.Logger) error {
	now := time.Now().UTC()
	for _, a := range attachments {
		n := &model.MediaNotification{
			ID:         newID(),
			CustomerID: customerID,
			MediaType:  a.Type,
			MediaURL:   a.Payload.URL,
			Status:     model.MediaStatusPending,
			CreatedAt:  now,
		}
		if err := s.media.Create(ctx, n); err != nil {
			return fmt.Errorf("failed to record media: %w", err)
		}
		publishEvent(ctx, s.events, log, model.EventMediaReceived, customerID, n.ID, map[string]any{
			"media_type": a.Type,
		})
	}

	conv, err := s.conversations.FindByCustomer(ctx, customerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		conv, err = s.createConversation(ctx, customerID)
		if err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("failed to load conversation: %w", err)
	}

	conv.MediaPending = true
	conv.LastUpdated = now
	if err := s.conversations.Save(ctx, conv); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	log.Info("media queued for review", zap.Int("attachments", len(attachments)))
	return nil
}

// dispatch sends the reply text followed by up to MaxProductImages
// product photos. Mentioned products without images still use a slot.
func (s *IngestionService) dispatch(ctx context.Context, customerID, text string, mentions []string, products []model.Product, log *logger.Logger) {
	if err := s.messenger.SendText(ctx, customerID, text); err != nil {
		log.Warn("failed to send reply", zap.Error(err))
	}

	if len(mentions) > MaxProductImages {
		mentions = mentions[:MaxProductImages]
	}
	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range mentions {
		p, ok := byID[id]
		if !ok {
			continue
		}
		img, ok := p.FirstImage()
		if !ok {
			continue
		}
		if err := s.messenger.SendImage(ctx, customerID, img); err != nil {
			log.Warn("failed to send product image", zap.String("product_id", id), zap.Error(err))
		}
	}
}
