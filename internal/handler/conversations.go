package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/urban-fashion/sales-agent/internal/service"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: svc,
		logger:  log,
	}
}

// RegisterRoutes mounts the conversation endpoints on r.
func (h *ConversationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/conversations", h.List)
	r.Get("/conversations/{customerID}", h.Get)
	r.Delete("/conversations/{customerID}", h.Delete)
}

// List handles GET /api/admin/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	out, err := h.service.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to list conversations")
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/admin/conversations/{customerID}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	conv, err := h.service.Get(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "conversation not found", "failed to get conversation")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// Delete handles DELETE /api/admin/conversations/{customerID}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "customerID")); err != nil {
		writeServiceError(w, r, h.logger, err, "conversation not found", "failed to delete conversation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
