package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/urban-fashion/sales-agent/internal/middleware"
	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/service"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

// MediaHandler handles the media review queue and payment QR codes.
type MediaHandler struct {
	media    *service.MediaService
	payments *service.PaymentQRService
	logger   *logger.Logger
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(media *service.MediaService, payments *service.PaymentQRService, log *logger.Logger) *MediaHandler {
	return &MediaHandler{
		media:    media,
		payments: payments,
		logger:   log,
	}
}

// RegisterRoutes mounts the media and payment QR endpoints on r.
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/media-notifications", h.ListNotifications)
	r.Post("/media-notifications/{id}/respond", h.Respond)
	r.Get("/payment-qr", h.ListPaymentQR)
	r.Post("/payment-qr", h.CreatePaymentQR)
	r.Delete("/payment-qr/{id}", h.DeletePaymentQR)
}

// ListNotifications handles GET /api/admin/media-notifications
func (h *MediaHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	status := model.MediaStatus(r.URL.Query().Get("status"))
	switch status {
	case "", model.MediaStatusPending, model.MediaStatusReviewed:
	default:
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	out, err := h.media.List(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to list media notifications")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Respond handles POST /api/admin/media-notifications/{id}/respond
func (h *MediaHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req model.RespondMediaRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMediaResponse(req.Response); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.media.Respond(r.Context(), chi.URLParam(r, "id"), req.Response)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Notification not found", "failed to respond to media")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// ListPaymentQR handles GET /api/admin/payment-qr
func (h *MediaHandler) ListPaymentQR(w http.ResponseWriter, r *http.Request) {
	out, err := h.payments.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to list payment qr codes")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CreatePaymentQR handles POST /api/admin/payment-qr
func (h *MediaHandler) CreatePaymentQR(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePaymentQRRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidatePaymentQR(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	qr, err := h.payments.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to create payment qr")
		return
	}
	writeJSON(w, http.StatusCreated, qr)
}

// DeletePaymentQR handles DELETE /api/admin/payment-qr/{id}
func (h *MediaHandler) DeletePaymentQR(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err, "Payment QR not found", "failed to delete payment qr")
		return
	}
	writeSuccess(w)
}
