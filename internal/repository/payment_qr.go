package repository

import (
	"context"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/store"
)

// PaymentQRRepository stores payment QR codes.
type PaymentQRRepository struct {
	store store.Store
}

// NewPaymentQRRepository creates a payment QR repository.
func NewPaymentQRRepository(s store.Store) *PaymentQRRepository {
	return &PaymentQRRepository{store: s}
}

// List returns all QR codes.
func (r *PaymentQRRepository) List(ctx context.Context) ([]model.PaymentQR, error) {
	recs, err := r.store.FindMany(ctx, store.TablePaymentQR, nil, store.DefaultLimit)
	if err != nil {
		return nil, err
	}
	out := make([]model.PaymentQR, 0, len(recs))
	for _, rec := range recs {
		out = append(out, model.PaymentQR{
			ID:            asString(rec["qr_id"]),
			PaymentMethod: asString(rec["payment_method"]),
			QRImageURL:    asString(rec["qr_image_url"]),
			AccountName:   asString(rec["account_name"]),
			Active:        asBool(rec["active"]),
		})
	}
	return out, nil
}

// Create inserts a QR code.
func (r *PaymentQRRepository) Create(ctx context.Context, qr *model.PaymentQR) error {
	return r.store.Insert(ctx, store.TablePaymentQR, store.Record{
		"qr_id":          qr.ID,
		"payment_method": qr.PaymentMethod,
		"qr_image_url":   qr.QRImageURL,
		"account_name":   qr.AccountName,
		"active":         qr.Active,
	})
}

// Delete removes a QR code by id.
func (r *PaymentQRRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.Delete(ctx, store.TablePaymentQR, store.Filter{"qr_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
