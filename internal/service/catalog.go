package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

// CatalogService manages the product catalog.
type CatalogService struct {
	products *repository.ProductRepository
	uploader ImageUploader
	logger   *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(products *repository.ProductRepository, uploader ImageUploader, log *logger.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		uploader: uploader,
		logger:   log,
	}
}

// List returns every product, active or not.
func (s *CatalogService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Create adds a product.
func (s *CatalogService) Create(ctx context.Context, in *model.ProductInput) (*model.Product, error) {
	p := &model.Product{
		ID:        newID(),
		CreatedAt: time.Now().UTC(),
	}
	in.Apply(p)

	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// Replace overwrites a product with in, keeping its id and creation time.
func (s *CatalogService) Replace(ctx context.Context, id string, in *model.ProductInput) (*model.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	in.Apply(p)

	if err := s.products.Replace(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return p, nil
}

// Delete removes a product.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

// UploadImage stores a product image and returns its URL.
func (s *CatalogService) UploadImage(ctx context.Context, data []byte) (string, error) {
	url, err := s.uploader.Upload(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}
