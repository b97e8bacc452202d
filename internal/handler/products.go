package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/urban-fashion/sales-agent/internal/middleware"
	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/service"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

const maxUploadSize = 10 << 20

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc *service.CatalogService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  log,
	}
}

// RegisterRoutes mounts the catalog endpoints on r.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Post("/products", h.Create)
	r.Put("/products/{id}", h.Replace)
	r.Delete("/products/{id}", h.Delete)
	r.Post("/upload-image", h.UploadImage)
}

// List handles GET /api/admin/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateProductInput(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.Create(r.Context(), &in)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Replace handles PUT /api/admin/products/{id}
func (h *ProductHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateProductInput(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.Replace(r.Context(), chi.URLParam(r, "id"), &in)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Product not found", "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err, "Product not found", "failed to delete product")
		return
	}
	writeSuccess(w)
}

// UploadImage handles POST /api/admin/upload-image
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	url, err := h.service.UploadImage(r.Context(), data)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to upload image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
