package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/urban-fashion/sales-agent/internal/service"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

// AuthHandler handles admin login.
type AuthHandler struct {
	service *service.AuthService
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  log,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Success bool   `json:"success"`
}

// RegisterRoutes mounts the auth endpoints on r.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.service.Login(req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Success: true})
}
