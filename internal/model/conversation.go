// Package model defines data structures for the sales agent backend.
package model

import (
	"time"
)

// Stage is the coarse sales-funnel position of a conversation.
type Stage string

const (
	StageGreeting    Stage = "greeting"
	StageBrowsing    Stage = "browsing"
	StageNegotiation Stage = "negotiation"
	StageOrdering    Stage = "ordering"
	StageCompleted   Stage = "completed"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderAgent    Sender = "agent"
)

// Message is one turn of a conversation. Immutable once appended.
type Message struct {
	Sender     Sender    `json:"sender"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	ProductIDs []string  `json:"product_ids"`
}

// Conversation is the single thread held with one messaging customer.
type Conversation struct {
	ID           string         `json:"conversation_id"`
	CustomerID   string         `json:"customer_id"`
	Messages     []Message      `json:"messages"`
	Stage        Stage          `json:"stage"`
	Context      map[string]any `json:"context"`
	LastUpdated  time.Time      `json:"last_updated"`
	MediaPending bool           `json:"has_media_pending"`
}

// NewMessage creates a message stamped with the current UTC time.
func NewMessage(sender Sender, text string, productIDs []string) Message {
	if productIDs == nil {
		productIDs = []string{}
	}
	return Message{
		Sender:     sender,
		Text:       text,
		Timestamp:  time.Now().UTC(),
		ProductIDs: productIDs,
	}
}

// Append adds a message to the end of the history.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
}

// LastMessages returns up to n most recent messages in chronological order.
func (c *Conversation) LastMessages(n int) []Message {
	if n <= 0 || len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}

// ConversationSummary is the admin list view of a conversation.
type ConversationSummary struct {
	ID           string    `json:"conversation_id"`
	CustomerID   string    `json:"customer_id"`
	Stage        Stage     `json:"stage"`
	MessageCount int       `json:"message_count"`
	LastMessage  *Message  `json:"last_message,omitempty"`
	LastUpdated  time.Time `json:"last_updated"`
	MediaPending bool      `json:"has_media_pending"`
}

// Summary builds the list view of c.
func (c *Conversation) Summary() ConversationSummary {
	s := ConversationSummary{
		ID:           c.ID,
		CustomerID:   c.CustomerID,
		Stage:        c.Stage,
		MessageCount: len(c.Messages),
		LastUpdated:  c.LastUpdated,
		MediaPending: c.MediaPending,
	}
	if n := len(c.Messages); n > 0 {
		last := c.Messages[n-1]
		s.LastMessage = &last
	}
	return s
}
