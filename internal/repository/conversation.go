package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/store"
)

// ConversationRepository reads and writes one conversation per customer.
type ConversationRepository struct {
	store store.Store
}

// NewConversationRepository creates a conversation repository.
func NewConversationRepository(s store.Store) *ConversationRepository {
	return &ConversationRepository{store: s}
}

// FindByCustomer returns the conversation for customerID or ErrNotFound.
func (r *ConversationRepository) FindByCustomer(ctx context.Context, customerID string) (*model.Conversation, error) {
	rec, err := r.store.FindOne(ctx, store.TableConversations, store.Filter{"customer_id": customerID})
	if err != nil {
		return nil, err
	}
	return conversationFromRecord(rec)
}

// Create inserts a new conversation.
func (r *ConversationRepository) Create(ctx context.Context, conv *model.Conversation) error {
	rec, err := conversationToRecord(conv)
	if err != nil {
		return err
	}
	return r.store.Insert(ctx, store.TableConversations, rec)
}

// Save replaces the stored conversation of conv.CustomerID with conv.
func (r *ConversationRepository) Save(ctx context.Context, conv *model.Conversation) error {
	rec, err := conversationToRecord(conv)
	if err != nil {
		return err
	}
	n, err := r.store.Update(ctx, store.TableConversations, store.Filter{"customer_id": conv.CustomerID}, rec)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("save conversation %s: %w", conv.CustomerID, ErrNotFound)
	}
	return nil
}

// SetMediaPending sets or clears the pending-media gate for a customer.
// A missing conversation is not an error.
func (r *ConversationRepository) SetMediaPending(ctx context.Context, customerID string, pending bool) error {
	_, err := r.store.Update(ctx, store.TableConversations,
		store.Filter{"customer_id": customerID},
		store.Record{"has_media_pending": pending},
	)
	return err
}

// List returns up to limit conversations, most recently updated first.
func (r *ConversationRepository) List(ctx context.Context, limit int) ([]model.Conversation, error) {
	recs, err := r.store.FindMany(ctx, store.TableConversations, nil, store.DefaultLimit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Conversation, 0, len(recs))
	for _, rec := range recs {
		conv, err := conversationFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *conv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes the conversation of customerID.
func (r *ConversationRepository) Delete(ctx context.Context, customerID string) error {
	n, err := r.store.Delete(ctx, store.TableConversations, store.Filter{"customer_id": customerID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err is a not-found lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func conversationToRecord(c *model.Conversation) (store.Record, error) {
	messages := c.Messages
	if messages == nil {
		messages = []model.Message{}
	}
	msgJSON, err := encodeJSON(messages)
	if err != nil {
		return nil, err
	}
	ctxMap := c.Context
	if ctxMap == nil {
		ctxMap = map[string]any{}
	}
	ctxJSON, err := encodeJSON(ctxMap)
	if err != nil {
		return nil, err
	}
	return store.Record{
		"conversation_id":   c.ID,
		"customer_id":       c.CustomerID,
		"messages":          msgJSON,
		"stage":             string(c.Stage),
		"context":           ctxJSON,
		"last_updated":      formatTime(c.LastUpdated),
		"has_media_pending": c.MediaPending,
	}, nil
}

func conversationFromRecord(rec store.Record) (*model.Conversation, error) {
	c := &model.Conversation{
		ID:           asString(rec["conversation_id"]),
		CustomerID:   asString(rec["customer_id"]),
		Stage:        model.Stage(asString(rec["stage"])),
		LastUpdated:  asTime(rec["last_updated"]),
		MediaPending: asBool(rec["has_media_pending"]),
		Messages:     []model.Message{},
		Context:      map[string]any{},
	}
	if c.Stage == "" {
		c.Stage = model.StageGreeting
	}
	if err := decodeJSON(rec, "messages", &c.Messages); err != nil {
		return nil, err
	}
	if err := decodeJSON(rec, "context", &c.Context); err != nil {
		return nil, err
	}
	return c, nil
}
