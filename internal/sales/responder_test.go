package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-fashion/sales-agent/internal/config"
	"github.com/urban-fashion/sales-agent/internal/llm"
	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

type fakeCompleter struct {
	content string
	err     error
	delay   time.Duration
	last    *llm.CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.last = req
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content, Model: "fake-model", TokensIn: 10, TokensOut: 5}, nil
}

func (f *fakeCompleter) Name() string { return "fake" }

func newTestResponder(c llm.Client, timeout time.Duration) *Responder {
	return NewResponder(c, "fake-model", config.BusinessProfile{}, timeout, logger.NewNop())
}

func TestResponder_Generate(t *testing.T) {
	fc := &fakeCompleter{content: "  Namaste! Red Kurta herna chahanu huncha?  "}
	r := newTestResponder(fc, time.Second)
	conv := &model.Conversation{CustomerID: "c1", Stage: model.StageGreeting}

	reply := r.Generate(context.Background(), "c1", "Namaste", conv, nil)

	assert.False(t, reply.Degraded)
	assert.NoError(t, reply.Err)
	assert.Equal(t, "Namaste! Red Kurta herna chahanu huncha?", reply.Text)

	require.NotNil(t, fc.last)
	assert.Equal(t, "c1", fc.last.SessionID)
	assert.Equal(t, "fake-model", fc.last.Model)
	assert.Contains(t, fc.last.System, `Customer just said: "Namaste"`)
	assert.Equal(t, llm.UserMessage("Namaste"), fc.last.Messages)
}

func TestResponder_FallbackOnError(t *testing.T) {
	boom := errors.New("provider down")
	r := newTestResponder(&fakeCompleter{err: boom}, time.Second)

	reply := r.Generate(context.Background(), "c1", "hello", &model.Conversation{}, nil)

	assert.True(t, reply.Degraded)
	assert.Equal(t, FallbackReply, reply.Text)
	assert.ErrorIs(t, reply.Err, boom)
}

func TestResponder_FallbackOnEmptyCompletion(t *testing.T) {
	r := newTestResponder(&fakeCompleter{content: "   "}, time.Second)

	reply := r.Generate(context.Background(), "c1", "hello", &model.Conversation{}, nil)

	assert.True(t, reply.Degraded)
	assert.Equal(t, FallbackReply, reply.Text)
	assert.ErrorIs(t, reply.Err, llm.ErrEmptyCompletion)
}

func TestResponder_FallbackOnTimeout(t *testing.T) {
	r := newTestResponder(&fakeCompleter{content: "late", delay: time.Second}, 20*time.Millisecond)

	reply := r.Generate(context.Background(), "c1", "hello", &model.Conversation{}, nil)

	assert.True(t, reply.Degraded)
	assert.Equal(t, FallbackReply, reply.Text)
	assert.ErrorIs(t, reply.Err, context.DeadlineExceeded)
}

type nilCompleter struct{}

func (nilCompleter) Complete(context.Context, *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return nil, nil
}

func (nilCompleter) Name() string { return "nil" }

func TestResponder_FallbackOnNilResponse(t *testing.T) {
	r := newTestResponder(nilCompleter{}, time.Second)

	var reply Reply
	require.NotPanics(t, func() {
		reply = r.Generate(context.Background(), "c1", "hello", &model.Conversation{}, nil)
	})

	assert.True(t, reply.Degraded)
	assert.Equal(t, FallbackReply, reply.Text)
	assert.ErrorIs(t, reply.Err, llm.ErrEmptyCompletion)
}
