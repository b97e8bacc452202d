package model

import (
	"time"
)

// MediaStatus is the review state of customer-submitted media.
type MediaStatus string

const (
	MediaStatusPending  MediaStatus = "pending"
	MediaStatusReviewed MediaStatus = "reviewed"
)

// MediaNotification records non-text media awaiting human review.
type MediaNotification struct {
	ID            string      `json:"notification_id"`
	CustomerID    string      `json:"customer_id"`
	MediaType     string      `json:"media_type"`
	MediaURL      string      `json:"media_url"`
	Status        MediaStatus `json:"status"`
	AdminResponse string      `json:"admin_response"`
	CreatedAt     time.Time   `json:"created_at"`
}

// RespondMediaRequest is the body of the media review action.
type RespondMediaRequest struct {
	Response string `json:"response"`
}

// PaymentQR is a payment method QR code shown to customers at checkout.
type PaymentQR struct {
	ID            string `json:"qr_id"`
	PaymentMethod string `json:"payment_method"`
	QRImageURL    string `json:"qr_image_url"`
	AccountName   string `json:"account_name"`
	Active        bool   `json:"active"`
}

// CreatePaymentQRRequest is the admin payload for a new QR code.
type CreatePaymentQRRequest struct {
	PaymentMethod string `json:"payment_method"`
	QRImageURL    string `json:"qr_image_url"`
	AccountName   string `json:"account_name"`
}
