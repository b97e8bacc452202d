package model

// WebhookPayload is the body the messaging platform posts to the webhook.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry groups messaging events for one page.
type WebhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent is a single inbound event from one customer.
type MessagingEvent struct {
	Sender    Participant     `json:"sender"`
	Recipient Participant     `json:"recipient"`
	Timestamp int64           `json:"timestamp"`
	Message   *InboundMessage `json:"message,omitempty"`
}

// Participant is a platform-scoped user or page id.
type Participant struct {
	ID string `json:"id"`
}

// InboundMessage is the message body of a messaging event.
type InboundMessage struct {
	MID         string       `json:"mid"`
	Text        string       `json:"text"`
	IsEcho      bool         `json:"is_echo,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is non-text media carried by an inbound message.
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload holds the hosted media location.
type AttachmentPayload struct {
	URL string `json:"url"`
}

// MediaAttachments returns the attachments that need human review.
// Fallback and template attachments carry no customer media.
func (m *InboundMessage) MediaAttachments() []Attachment {
	var out []Attachment
	for _, a := range m.Attachments {
		switch a.Type {
		case "image", "video", "audio", "file":
			out = append(out, a)
		}
	}
	return out
}
