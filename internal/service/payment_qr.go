package service

import (
	"context"
	"fmt"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
)

// PaymentQRService manages payment QR codes.
type PaymentQRService struct {
	qrs *repository.PaymentQRRepository
}

// NewPaymentQRService creates a new payment QR service.
func NewPaymentQRService(qrs *repository.PaymentQRRepository) *PaymentQRService {
	return &PaymentQRService{qrs: qrs}
}

// List returns all QR codes.
func (s *PaymentQRService) List(ctx context.Context) ([]model.PaymentQR, error) {
	out, err := s.qrs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment qr codes: %w", err)
	}
	return out, nil
}

// Create adds an active QR code.
func (s *PaymentQRService) Create(ctx context.Context, req *model.CreatePaymentQRRequest) (*model.PaymentQR, error) {
	qr := &model.PaymentQR{
		ID:            newID(),
		PaymentMethod: req.PaymentMethod,
		QRImageURL:    req.QRImageURL,
		AccountName:   req.AccountName,
		Active:        true,
	}
	if err := s.qrs.Create(ctx, qr); err != nil {
		return nil, fmt.Errorf("failed to create payment qr: %w", err)
	}
	return qr, nil
}

// Delete removes a QR code.
func (s *PaymentQRService) Delete(ctx context.Context, id string) error {
	if err := s.qrs.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete payment qr %s: %w", id, err)
	}
	return nil
}
