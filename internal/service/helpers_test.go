package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
	"github.com/urban-fashion/sales-agent/internal/sales"
	"github.com/urban-fashion/sales-agent/internal/store"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

func newTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

type sentMessage struct {
	Recipient string
	Text      string
	ImageURL  string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeMessenger) SendText(_ context.Context, recipientID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Recipient: recipientID, Text: text})
	return f.err
}

func (f *fakeMessenger) SendImage(_ context.Context, recipientID, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Recipient: recipientID, ImageURL: imageURL})
	return f.err
}

func (f *fakeMessenger) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []model.DomainEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event *model.DomainEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	return f.err
}

func (f *fakePublisher) types() []model.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.EventType, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

// fakeGenerator answers every turn with the same reply.
type fakeGenerator struct {
	reply sales.Reply
	hook  func()
	mu    sync.Mutex
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string, _ *model.Conversation, _ []model.Product) sales.Reply {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.hook != nil {
		f.hook()
	}
	return f.reply
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(context.Context, []byte) (string, error) {
	return f.url, f.err
}

type ingestionFixture struct {
	svc           *IngestionService
	conversations *repository.ConversationRepository
	products      *repository.ProductRepository
	media         *repository.MediaRepository
	messenger     *fakeMessenger
	generator     *fakeGenerator
	events        *fakePublisher
}

func newIngestionFixture(t *testing.T, reply string) *ingestionFixture {
	t.Helper()
	st := newTestStore(t)
	f := &ingestionFixture{
		conversations: repository.NewConversationRepository(st),
		products:      repository.NewProductRepository(st),
		media:         repository.NewMediaRepository(st),
		messenger:     &fakeMessenger{},
		generator:     &fakeGenerator{reply: sales.Reply{Text: reply}},
		events:        &fakePublisher{},
	}
	f.svc = NewIngestionService(f.conversations, f.products, f.media, f.generator, f.messenger, f.events, 100, logger.NewNop())
	return f
}

func textEvent(customerID, text string) model.MessagingEvent {
	return model.MessagingEvent{
		Sender:  model.Participant{ID: customerID},
		Message: &model.InboundMessage{MID: "m-" + text, Text: text},
	}
}

func mediaEvent(customerID string, attachments ...model.Attachment) model.MessagingEvent {
	return model.MessagingEvent{
		Sender:  model.Participant{ID: customerID},
		Message: &model.InboundMessage{MID: "m-media", Attachments: attachments},
	}
}
