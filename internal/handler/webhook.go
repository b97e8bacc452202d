package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/internal/messenger"
	"github.com/urban-fashion/sales-agent/internal/middleware"
	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/service"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

const maxWebhookBody = 1 << 20

// EventHandler processes one inbound messaging event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event model.MessagingEvent) (service.Outcome, error)
}

// WebhookHandler receives messaging platform callbacks.
type WebhookHandler struct {
	events      EventHandler
	verifyToken string
	appSecret   string
	logger      *logger.Logger
}

// NewWebhookHandler creates a new webhook handler. An empty appSecret
// disables signature verification.
func NewWebhookHandler(events EventHandler, verifyToken, appSecret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		events:      events,
		verifyToken: verifyToken,
		appSecret:   appSecret,
		logger:      log,
	}
}

// RegisterRoutes mounts the webhook endpoints on r.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Get("/webhook", h.Verify)
	r.Post("/webhook", h.Receive)
}

// Verify handles GET /api/webhook, the platform subscription handshake.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || q.Get("hub.verify_token") != h.verifyToken {
		writeError(w, http.StatusForbidden, "Verification failed")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, q.Get("hub.challenge"))
}

// Receive handles POST /api/webhook. Each sender's events are processed in
// delivery order; different senders run concurrently. The response is sent
// once all of them finished.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if err := messenger.VerifySignature(h.appSecret, body, r.Header.Get(messenger.SignatureHeader)); err != nil {
		h.logger.Warn("webhook signature rejected", zap.String("remote_addr", r.RemoteAddr))
		writeError(w, http.StatusForbidden, "Invalid signature")
		return
	}

	var payload model.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Object != "page" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	correlationID := middleware.GetCorrelationID(r.Context())
	ctx := context.WithoutCancel(r.Context())

	var wg sync.WaitGroup
	for _, events := range groupBySender(payload) {
		wg.Add(1)
		go func(events []model.MessagingEvent) {
			defer wg.Done()
			for _, event := range events {
				h.handleEvent(ctx, correlationID, event)
			}
		}(events)
	}
	wg.Wait()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookHandler) handleEvent(ctx context.Context, correlationID string, event model.MessagingEvent) {
	log := h.logger.WithCustomer(correlationID, event.Sender.ID)
	outcome, err := h.events.HandleEvent(ctx, event)
	if err != nil {
		log.Error("failed to handle messaging event", zap.Error(err))
		return
	}
	log.Debug("messaging event handled", zap.String("outcome", string(outcome)))
}

// groupBySender splits the events of a delivery per sender, keeping the
// delivery order inside each group.
func groupBySender(payload model.WebhookPayload) [][]model.MessagingEvent {
	var groups [][]model.MessagingEvent
	index := make(map[string]int)
	for _, entry := range payload.Entry {
		for _, event := range entry.Messaging {
			i, ok := index[event.Sender.ID]
			if !ok {
				i = len(groups)
				index[event.Sender.ID] = i
				groups = append(groups, nil)
			}
			groups[i] = append(groups[i], event)
		}
	}
	return groups
}
