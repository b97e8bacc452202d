package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/urban-fashion/sales-agent/internal/model"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 5000
	maxResponseLength    = 2000
)

// ValidateProductInput validates an admin product payload.
func ValidateProductInput(in *model.ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if len(name) > maxNameLength {
		return errors.New("name exceeds maximum length")
	}
	if !utf8.ValidString(in.Name) || !utf8.ValidString(in.Description) {
		return errors.New("text fields must be valid UTF-8")
	}
	if len(in.Description) > maxDescriptionLength {
		return errors.New("description exceeds maximum length")
	}
	if in.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if in.RegularPrice != nil && *in.RegularPrice < 0 {
		return errors.New("regular price cannot be negative")
	}
	if in.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	return nil
}

// ValidateOrderRequest validates a manual order entry.
func ValidateOrderRequest(req *model.CreateOrderRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return errors.New("customer name cannot be empty")
	}
	if strings.TrimSpace(req.PhonePrimary) == "" {
		return errors.New("primary phone cannot be empty")
	}
	if len(req.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
		if it.Price < 0 {
			return errors.New("item price cannot be negative")
		}
	}
	return nil
}

// ValidatePaymentQR validates a new payment QR entry.
func ValidatePaymentQR(req *model.CreatePaymentQRRequest) error {
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return errors.New("payment method cannot be empty")
	}
	if strings.TrimSpace(req.QRImageURL) == "" {
		return errors.New("qr image url cannot be empty")
	}
	return nil
}

// ValidateMediaResponse validates an admin reply to customer media.
func ValidateMediaResponse(response string) error {
	if len(response) > maxResponseLength {
		return errors.New("response exceeds maximum length")
	}
	if !utf8.ValidString(response) {
		return errors.New("response must be valid UTF-8")
	}
	return nil
}
