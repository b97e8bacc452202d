package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/internal/config"
	"github.com/urban-fashion/sales-agent/internal/llm"
	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/pkg/logger"
	"github.com/urban-fashion/sales-agent/pkg/metrics"
	"github.com/urban-fashion/sales-agent/pkg/tracing"
)

// FallbackReply is sent when the completion service cannot produce text.
const FallbackReply = "Sorry, ma ali busy chhu. Pachhi message garnus!"

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 512
)

// Reply is the outcome of one generation attempt. Text is always
// sendable; Degraded is set when Text is the fallback and Err holds the cause.
type Reply struct {
	Text     string
	Degraded bool
	Err      error
}

// Responder generates agent replies through a completion client.
type Responder struct {
	client  llm.Client
	model   string
	profile config.BusinessProfile
	timeout time.Duration
	logger  *logger.Logger
}

// NewResponder creates a responder. A zero timeout uses 30s.
func NewResponder(client llm.Client, modelName string, profile config.BusinessProfile, timeout time.Duration, log *logger.Logger) *Responder {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Responder{
		client:  client,
		model:   modelName,
		profile: profile.WithDefaults(),
		timeout: timeout,
		logger:  log,
	}
}

// Generate produces the agent reply to text. It never fails: on any
// completion error the fallback reply is returned with Degraded set.
func (r *Responder) Generate(ctx context.Context, customerID, text string, conv *model.Conversation, products []model.Product) Reply {
	ctx, span := tracing.Tracer().Start(ctx, "sales.generate")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := BuildPrompt(r.profile, conv, products, text)

	start := time.Now()
	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Model:     r.model,
		System:    prompt,
		Messages:  llm.UserMessage(text),
		MaxTokens: defaultMaxTokens,
		SessionID: customerID,
	})
	elapsed := time.Since(start).Seconds()

	if err == nil && (resp == nil || strings.TrimSpace(resp.Content) == "") {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		metrics.RecordCompletion(r.client.Name(), "", "error", elapsed, 0, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("completion timed out", zap.String("customer_id", customerID), zap.Duration("timeout", r.timeout))
		} else {
			r.logger.Error("completion failed", zap.String("customer_id", customerID), zap.Error(err))
		}
		return Reply{Text: FallbackReply, Degraded: true, Err: err}
	}

	metrics.RecordCompletion(r.client.Name(), resp.Model, "success", elapsed, resp.TokensIn, resp.TokensOut)
	span.SetAttributes(
		attribute.String("llm.model", resp.Model),
		attribute.Int("llm.tokens_in", resp.TokensIn),
		attribute.Int("llm.tokens_out", resp.TokensOut),
	)

	return Reply{Text: strings.TrimSpace(resp.Content)}
}
